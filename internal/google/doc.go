// Package google loads OAuth credentials for the Google Calendar API.
//
// A token can come from files on disk (FileTokenProvider) or from inline
// JSON documents held in environment variables (EnvTokenProvider). Both
// produce refreshing oauth2 token sources; no interactive authorization flow
// is performed here, the token must have been obtained beforehand.
package google
