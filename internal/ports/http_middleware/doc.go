// Package http_middleware instruments HTTP handlers of the host application
// with the well-known rebalancer metrics. It records request volume by
// method, server-side errors and response payload sizes through the
// registry's update API, without ever affecting the wrapped handler's
// behavior.
package http_middleware
