// Package generator applies a manifest to produce the sources of one image
// version.
//
// Every rule writes below <workdir>/<version>. Rules run in manifest order,
// one at a time:
//
//	CP   copy a file, keeping its mode and modification time
//	LN   create a symlink, removed again when it dangles
//	DG   render a template once with a single distro config
//	DGM  render a template with the distro config its file name names
//
// A failing rule stops the run; rules applied before it stay on disk.
package generator
