// Package multispec reads distgen multispec files and expands them into the
// concrete (distro, version) combinations they describe.
//
// A multispec names groups of specs. The special "distroinfo" group lists,
// per entry, the distro configs it applies to; every other group (usually
// "version") contributes one selector key per combination. The matrix
// exclude list removes combinations:
//
//	specs:
//	  distroinfo:
//	    fedora:
//	      distros: [fedora-39-x86_64]
//	    rhel9:
//	      distros: [rhel-9-x86_64]
//	  version:
//	    "3.9": {version: "3.9"}
//	    "3.12": {version: "3.12"}
//	matrix:
//	  exclude:
//	    - distros: [rhel-9-x86_64]
//	      version: "3.9"
//
// expands to fedora-39-x86_64.yaml for 3.9 and 3.12 and rhel-9-x86_64.yaml
// for 3.12 only.
package multispec
