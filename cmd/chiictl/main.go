// Command chiictl inspects and edits the bot's persisted data.
package main

import "github.com/PancyStudios/ChiiBot/cmd/chiictl/root"

func main() {
	root.Execute()
}
