// Package fallback supplies canned responses for elevated users asking about
// topics the knowledge base has no supporting documents for. Fallbacks are
// role-gated: financial and fiscal fallbacks require the admin role, planning
// methodology fallbacks require planner or admin.
package fallback
