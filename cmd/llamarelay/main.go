// llamarelay is the command line companion of the gateway server.
//
// Usage:
//
//	# Stream a reply through a local gateway
//	llamarelay chat "why is the sky blue?"
//
//	# Replay a conversation file
//	llamarelay chat --file conversation.yaml
//
//	# Hash an access code for config.toml
//	llamarelay hash my-code
//
//	# Issue a bearer token for a gateway started with JWT_SECRET
//	llamarelay token --secret "$JWT_SECRET" --subject alice
package main

func main() {
	Execute()
}
