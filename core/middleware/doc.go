// Package middleware groups the HTTP middleware used by the deploy webhook.
//
//   - auth: rejects requests without a matching X-API-Key header.
//   - rayid: tags each request with a ray ID, stored in the Fiber locals
//     under "ray_id" and echoed in the X-Ray-ID response header.
package middleware
