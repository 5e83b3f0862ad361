// Package templates holds the server-rendered pages of the web UI.
//
// Pages are templ components; run `templ generate` after editing a .templ
// file and commit the generated *_templ.go next to it.
package templates

// IndexPage is the data shown on the upload page.
type IndexPage struct {
	MaxUpload string // human-readable upload limit, e.g. "1 GiB"
}
