package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// errInvalidPayloadHex is returned when --hex is set but the payload argument
// is not valid hex.
var errInvalidPayloadHex = errors.New("payload is not valid hex")

// injectRequest mirrors internal/control's POST /events request body.
type injectRequest struct {
	ComponentID int64  `json:"component_id"`
	Port        string `json:"port"`
	PayloadHex  string `json:"payload_hex"`
}

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inject events into the running simulation",
	}

	cmd.AddCommand(eventsInjectCmd())

	return cmd
}

func eventsInjectCmd() *cobra.Command {
	var payloadIsHex bool

	cmd := &cobra.Command{
		Use:   "inject <component-id> <port> <payload>",
		Short: "Inject a send_down event onto a component's port",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parse component id %q: %w", args[0], err)
			}

			payloadHex := args[2]
			if !payloadIsHex {
				payloadHex = hex.EncodeToString([]byte(args[2]))
			} else if _, err := hex.DecodeString(payloadHex); err != nil {
				return fmt.Errorf("%w: %q", errInvalidPayloadHex, payloadHex)
			}

			req := injectRequest{
				ComponentID: id,
				Port:        args[1],
				PayloadHex:  payloadHex,
			}

			if err := postJSON("/events", req, 202); err != nil {
				return fmt.Errorf("inject event: %w", err)
			}

			fmt.Printf("injected %d bytes onto component %d port %q\n", len(payloadHex)/2, id, args[1])

			return nil
		},
	}

	cmd.Flags().BoolVar(&payloadIsHex, "hex", false, "treat payload argument as already hex-encoded")

	return cmd
}
