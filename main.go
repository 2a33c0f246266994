/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coffeeshop/spaenv/cmd"
)

func main() {
	// Cancel on SIGINT (Ctrl+C) or SIGTERM so that dialogs and HTTP checks stop cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.ExecuteContext(ctx)
}
