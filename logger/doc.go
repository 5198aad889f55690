// Package logger provides structured logging over zerolog.
//
// A Logger satisfies the client package's Sink interface, so the same
// instance serves both application logging and the client's dispatch
// events:
//
//	log := logger.NewDefault().WithComponent("billing-api")
//	c, err := client.New(cfg, def, client.WithSink(log))
package logger
