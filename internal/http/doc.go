// Package http provides HTTP handlers and middleware for the homework API.
//
// The router exposes the following endpoints:
//   - GET /homeworks, POST /homeworks: list every assignment ordered by due date
//     (with an ETag honouring If-None-Match) and create one. Creation responds
//     201 with {"homework","warnings"}.
//   - GET /homeworks/{id}, PUT /homeworks/{id}, DELETE /homeworks/{id}: fetch,
//     partially update and remove a single assignment. Unknown ids yield 404
//     {"message":"Homework not found"}.
//   - POST /homeworks/check-conflicts: body {"dueDate","id"}; responds with the
//     array of advisory warnings [{"type","message","affectedDates"}].
//   - GET /calendar?month=YYYY-MM&subjects=a,b and GET /calendar/days/{date}:
//     month grid and single day panel built on assigned..due range membership.
//   - GET /upcoming?today=YYYY-MM-DD: assignments due today or later grouped by day.
//   - GET /subjects, GET /healthz.
//
// Validation failures map to 400 with a field keyed "errors" object, store
// connectivity failures to 503 and schema mismatches to 500. Request/response
// DTOs live alongside their respective handlers.
package http
