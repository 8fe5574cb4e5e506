// Command testplugin is a minimal plugin executable used to exercise the
// host runtime end to end: it connects to the endpoint name passed as
// its sole argument and sends a single Init handshake.
package main

import (
	"fmt"
	"os"

	"github.com/polychat-dev/polychat-core/envelope"
	"github.com/polychat-dev/polychat-core/pluginsdk"
)

func main() {
	fmt.Println("Test example plugin starting.")

	if len(os.Args) != 2 {
		panic(fmt.Sprintf("incorrect number of args while running plugin. got %d, expected 1", len(os.Args)-1))
	}
	endpointName := os.Args[1]

	client, err := pluginsdk.Connect(endpointName)
	if err != nil {
		panic(fmt.Sprintf("error while opening IPC connection: %v", err))
	}
	defer client.Close()

	// TODO: let the plugin supply this instead of example data.
	err = client.SendInit(envelope.InitData{
		APIVersion:    envelope.Version{Major: 0, Minor: 1, Patch: 0},
		PluginVersion: envelope.Version{Major: 0, Minor: 1, Patch: 0},
		ProtocolData: envelope.ProtocolData{
			ProtocolServiceName: "example_protocol",
			AuthMethods:         []envelope.AuthMethod{},
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error while trying to send core instruction: %v\n", err)
	}

	fmt.Println("Test example plugin finished running.")
}
