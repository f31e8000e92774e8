// Package auth provides the actor identity used to attribute alert
// acknowledgements and resolutions: Bearer JWT verification plus context
// plumbing. Deployments without tokens fall back to an anonymous actor.
package auth
