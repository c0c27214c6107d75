package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/etherpad/eplite-go/eplite"
	"github.com/etherpad/eplite-go/internal/config"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var multi *multierror.Error
	var remoteErr *eplite.RemoteError
	var protoErr *eplite.ProtocolError
	var transportErr *eplite.TransportError
	var configErr *eplite.ConfigurationError

	switch {
	case errors.As(err, &multi):
		fmt.Fprintf(&msg, "%d operations failed:\n", len(multi.Errors))
		for _, e := range multi.Errors {
			fmt.Fprintf(&msg, "  - %s\n", e)
		}

	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("No Etherpad instance configured.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: eplite auth login --url https://pad.example.com --api-key KEY\n")
		fmt.Fprintf(&msg, "  - Or set %s and %s\n", config.EnvURL, config.EnvAPIKey)

	case errors.As(err, &remoteErr):
		fmt.Fprintf(&msg, "API error (%s): %s\n\n", remoteErr.Code, remoteMessage(remoteErr))
		msg.WriteString(suggestionsForStatus(remoteErr.Code))

	case errors.As(err, &protoErr):
		fmt.Fprintf(&msg, "Unexpected reply: %s\n\n", protoErr)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the base URL points at the API root (often ending in /api)\n")
		msg.WriteString("  - Use --debug to see the exchange\n")
		if protoErr.Reason == eplite.ReasonMalformedResponse {
			msg.WriteString("  - Use --lenient to treat non-JSON replies as empty results\n")
		}

	case errors.As(err, &transportErr):
		msg.WriteString(transportMessage(transportErr))

	case errors.As(err, &configErr):
		fmt.Fprintf(&msg, "Configuration error: %s\n", configErr.Reason)

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func remoteMessage(err *eplite.RemoteError) string {
	if err.Message == "" {
		return "no message"
	}
	return err.Message
}

func suggestionsForStatus(code eplite.StatusCode) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch code {
	case eplite.CodeInvalidParameters:
		suggestions.WriteString("  - Check the IDs and argument values\n")
		suggestions.WriteString("  - The group, author, session or pad may not exist\n")
	case eplite.CodeInternalError:
		suggestions.WriteString("  - The server failed; retry later\n")
		suggestions.WriteString("  - Check the Etherpad server log\n")
	case eplite.CodeInvalidMethod:
		suggestions.WriteString("  - The server does not know this method\n")
		suggestions.WriteString("  - Run: eplite methods\n")
	case eplite.CodeInvalidAPIKey:
		suggestions.WriteString("  - The API key was rejected (see APIKEY.txt on the server)\n")
		suggestions.WriteString("  - Run: eplite auth login\n")
	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}

func transportMessage(err *eplite.TransportError) string {
	var msg strings.Builder
	text := err.Error()
	switch {
	case err.Timeout():
		msg.WriteString("Request timed out.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Raise --timeout\n")
		msg.WriteString("  - Check that the Etherpad instance is reachable\n")
	case strings.Contains(text, "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check if the Etherpad server is running\n")
		msg.WriteString("  - Verify the URL: eplite auth status\n")
	case strings.Contains(text, "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the instance URL spelling\n")
	case strings.Contains(text, "certificate"):
		msg.WriteString("TLS certificate error.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the server's certificate\n")
		msg.WriteString("  - Ensure the URL scheme matches the server\n")
	default:
		fmt.Fprintf(&msg, "Request failed: %s\n", text)
	}
	return msg.String()
}
