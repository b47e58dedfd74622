// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command sgemmbench benchmarks the sgemm kernels and reports the results.
//
// Usage:
//
//	sgemmbench run --impl blocked --log benchmark-blocked.log
//	sgemmbench run --impl blas --log benchmark-blas.log
//	sgemmbench summary *.log
//	sgemmbench plot --baseline benchmark-blas.log --out plots *.log
//	sgemmbench cpuinfo
//
// Logs contain one "Size: N\tGflop/s: X" line per matrix size.
package main

import (
	goflag "flag"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "sgemmbench",
		Short:         "Benchmark square single-precision C += A·B kernels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(
		newRunCommand(),
		newSummaryCommand(),
		newPlotCommand(),
		newCPUInfoCommand(),
	)
	return root
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		klog.Errorf("%+v", err)
	}
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
