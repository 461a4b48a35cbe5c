// Package dashboard implements the gRPC transport for the dashboard sync
// service.
//
// Messages are protobuf well-known types, so the service description and the
// client stub are declared here instead of being generated. The server adapts
// those messages to domain types and calls into a provided business-service
// interface.
package dashboard
