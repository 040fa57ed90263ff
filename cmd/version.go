// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

// Version is stamped at build time:
//
//	go build -ldflags "-X sqlbridge/cli/cmd.Version=1.2.3"
var Version = "0.0.0-dev"
