// Package classify detects when a free-text query is asking for information
// above a role's privilege level, before any retrieval happens.
//
// Two independent detectors exist: one for admin-only topics (financial and
// strategic management phrasing) and one for planner-only topics (technical
// planning jargon). Detection layers exact-phrase lists, keyword frequency,
// critical single keywords, and regex patterns over regulatory language.
//
// Matching is case-insensitive and substring-based, without word-boundary
// anchoring on the term lists, so a keyword embedded mid-word still matches.
// That imprecision is inherited deliberately; adding anchoring would change
// which queries get gated.
//
// The Gate combines both detectors with the caller's role set to produce a
// deny/allow decision and a role-appropriate denial message. This gate is
// topic-level and document-independent; per-document checks in package authz
// still run on every retrieved candidate afterwards.
package classify
