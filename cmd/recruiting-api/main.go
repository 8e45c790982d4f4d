// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/ae2i/recruiting/log"
	"github.com/ae2i/recruiting/server"
)

// @title        Recruiting API
// @version      latest
// @description  Upload pipeline, candidatures, job offers and account management for the recruiting backend.
// @BasePath     /v1
func main() {
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log.Info("starting recruiting-api...")
	server.New(new(service), applicationYamlKey, swaggerRoot).ListenAndServe(appCtx, cancel)
}
