// Package preference implements persistence for the timezone Preference.
//
// The FileRepository stores the preference as protobuf JSON of a
// google.protobuf.Struct and exposes the Repository interface the timezone
// source depends on.
package preference
