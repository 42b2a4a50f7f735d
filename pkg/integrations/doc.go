// Package integrations provides the entity sources a splash layout is built
// from.
//
// # Sources
//
// A [Source] returns the ordered list of entities (subsidiary companies) that
// receive a marker. Two implementations exist:
//
//   - [StaticSource]: entities listed in configuration or generated placeholders
//   - [portal]: the portal's company endpoint over HTTP
//
// # Shared Infrastructure
//
// The [Client] type provides the HTTP plumbing used by remote sources:
// default headers, a 10 second timeout, retry with exponential backoff for
// network errors and 5xx responses, and response caching through any
// [cache.Cache] backend.
//
//	client := integrations.NewClient(backend, "portal:", time.Hour, headers)
//	err := client.Cached(ctx, key, refresh, &v, func() error {
//	    return client.Get(ctx, url, &v)
//	})
//
// [portal]: github.com/apecglobal/logofield/pkg/integrations/portal
// [cache.Cache]: github.com/apecglobal/logofield/pkg/cache.Cache
package integrations
