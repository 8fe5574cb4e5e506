// Command polychat-host runs the plugin host runtime standalone: it
// discovers and spawns every plugin found in the configured plugin
// directory and logs the bootstrap and discovery lifecycle.
package main

func main() {
	Execute()
}
