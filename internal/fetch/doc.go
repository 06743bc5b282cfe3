// Package fetch performs the HTTP GETs behind every scraping operation.
//
// Response bodies are always decoded as UTF-8, whatever charset the server
// declares. Non-2xx responses and transport failures are reported as
// *FetchError. The package never retries; callers that want retries or
// timeouts supply their own *http.Client.
package fetch
