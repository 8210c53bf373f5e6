// Package server implements the HTTP surface of the editor: the admin
// entry point with its login and editor views, the gated content
// endpoints beneath it, and the health and metrics endpoints. Errors from
// the auth and content packages are turned into responses in one place.
package server
