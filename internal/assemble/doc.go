// Package assemble turns a ranked candidate list into the context string
// handed to generation, applying the role-dependent restriction policy.
//
// The policy is asymmetric on purpose. Citizens get nothing when any
// restricted material was touched, even if unrestricted content was also
// found. Planners and admins get the answerable portion plus a disclosure
// counting what was withheld.
package assemble
