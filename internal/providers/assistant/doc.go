// Package assistant connects the Nexus AI chat window to a generative
// language API.
//
// The client never surfaces an error to the window: a missing key, a
// failed call or an empty answer each map to a fixed reply.
package assistant
