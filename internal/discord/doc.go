// Package discord connects threadsync to a Discord guild.
//
// ForumSink implements threads.Sink on top of a forum channel that is looked up
// by name and created when missing. Bot owns the gateway session: it forwards
// thread archive events to the lifecycle handler and serves the /issues slash
// commands (create and close).
package discord
