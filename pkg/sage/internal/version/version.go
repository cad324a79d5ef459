// Package version carries the SDK version shared by the public facade
// and the transports.
package version

// Version is the SDK release version.
const Version = "0.1.0"

// UserAgent identifies the SDK on HTTP requests.
const UserAgent = "sage-sdk-go/" + Version
