// Package secret resolves backend credentials referenced from
// configuration: cache passwords, token signing keys, probe DSNs.
//
// Values pass through strict environment expansion (ExpandEnvStrict),
// then any "secretref:<provider>:<ref>" tokens are resolved through a
// registered Provider:
//
//	Full value:  secretref:env:REDIS_PASSWORD
//	Inline use:  redis://:secretref:env:REDIS_PASSWORD@localhost:6379
//
// Resolution happens at the consumption point rather than at load time,
// so providers that re-read their backend pick up rotated secrets.
package secret
