// tracontent is a multisite CMS for event and convention websites.
//
// One installation serves any number of sites, keyed by the host:port the
// visitor used. Content lives in SQLite; editors log in through the
// Kompassi identity provider over OAuth2.
//
// Usage:
//
//	tracontent setup [--test]
//	tracontent setup_example_content <host:port>
//	tracontent runserver <host:port>
//
// See --help for all available options.
package main

import "tracontent/pkg/cmd"

func main() {
	cmd.Execute()
}
