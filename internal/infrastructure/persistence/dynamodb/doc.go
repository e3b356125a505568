// Package dynamodb implements the repository contracts on a single DynamoDB
// table.
//
// Layout:
//   - every item has a composite key pk/sk and a type attribute
//   - top-level entities use pk = sk = "<Type>#<id>"
//   - widgets live in their dashboard's partition: pk = "Dashboard#<id>",
//     sk = "Widget#<id>", so one query returns a dashboard and its widgets
//   - the settings singleton uses pk = sk = "Settings"
//   - the byType global secondary index (hash key type) serves every list
//
// Mutations that take an expected updatedAt are conditional writes; a failed
// condition surfaces as a CONCURRENCY_CONFLICT error.
package dynamodb
