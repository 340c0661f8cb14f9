// Command venue-recon probes arts venue websites and ranks them by how easy
// their event listings would be to scrape.
package main

import "github.com/pfrederiksen/venue-recon/internal/cli"

func main() {
	cli.Execute()
}
