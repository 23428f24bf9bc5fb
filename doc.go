// Package leadconsole implements the client core of a lead-management web
// console: authentication flows (login, registration with OTP email
// verification, forgot-password reset), the credential lifecycle, lead CRUD
// against the backend REST API, and bulk spreadsheet import reconciliation.
//
// The package is the public surface. It exposes [Console], [Builder],
// [Config], the flow controllers ([VerificationFlow], [ResetFlow],
// [BulkImporter]), and value types. Credential backends live under
// credentials/, the password rule set under password/, and route decisions
// under guard/.
//
// # Architecture boundaries
//
//   - All persistence and business rules live in the backend API; this
//     package never validates a token locally. Authorization failure is
//     detected through 401 responses and handled globally by the gateway:
//     the stored token is cleared exactly once per failing response and the
//     configured unauthorized handler fires. Individual flows never see 401.
//   - Flow controllers model the event-loop semantics of the console:
//     an operation never overlaps itself, cooldown tickers are tied to the
//     flow lifetime, and a response arriving after Teardown is dropped.
//   - Construction through [Builder.Build] is allocation-only; no I/O happens
//     before the first Console method call.
package leadconsole
