// Package services implements the driving port interfaces.
// Services contain the client-side rules (validation, count joins,
// scope encoding) and orchestrate calls to the backend port.
//
// Services hold no view state and are safe for concurrent use as long
// as their driven ports are.
package services
