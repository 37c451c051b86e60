// Package banner renders the startup banner printed by the CLI.
package banner

import "fmt"

const art = `
     _ _ _
  __| (_) |
 / _' | | |
| (_| | | |
 \__,_|_|_|
`

// Banner returns the banner text for the given version.
func Banner(version string) string {
	return fmt.Sprintf("%s  language identification %s\n\n", art, version)
}
