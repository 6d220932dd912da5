// Package authz implements per-document access control for planqd.
//
// Access is decided from a read-only Registry of users, documents, and
// role→document grants, constructed once at startup and shared by reference.
// Admins bypass every grant table. Denials carry a user-facing reason that
// distinguishes restricted documents from ungranted and unknown ones, so
// callers can build precise denial messages instead of a generic error.
//
// The topic-level pre-retrieval gate lives in package classify; the two
// checks are independent and both must pass.
package authz
