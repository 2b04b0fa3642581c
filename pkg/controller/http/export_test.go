package http

// Test-only access to unexported helpers
var IsLocalhost = isLocalhost
