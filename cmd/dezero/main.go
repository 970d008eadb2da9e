// Package main provides the dezero CLI.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/dezero/internal/cli"
	"k8s.io/klog/v2"
)

func main() {
	defer klog.Flush()
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		klog.Flush()
		os.Exit(1)
	}
}
