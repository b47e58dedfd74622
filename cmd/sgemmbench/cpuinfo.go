package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/ajroetker/go-sgemm/hwy"
	"github.com/ajroetker/go-sgemm/hwy/contrib/sgemm"
	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"
)

func newCPUInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cpuinfo",
		Short: "Print the detected CPU features and the default kernel parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printCPUInfo(cmd.OutOrStdout())
		},
	}
}

type feature struct {
	name string
	has  bool
	note string
}

func cpuFeatures() []feature {
	switch runtime.GOARCH {
	case "arm64":
		return []feature{
			{"ASIMD", cpu.ARM64.HasASIMD, "NEON baseline"},
			{"FP", cpu.ARM64.HasFP, "Floating point"},
			{"SVE", cpu.ARM64.HasSVE, "Scalable Vector Extension"},
			{"SVE2", cpu.ARM64.HasSVE2, ""},
		}
	case "amd64":
		return []feature{
			{"SSE2", cpu.X86.HasSSE2, ""},
			{"AVX", cpu.X86.HasAVX, ""},
			{"AVX2", cpu.X86.HasAVX2, ""},
			{"FMA", cpu.X86.HasFMA, ""},
			{"AVX512F", cpu.X86.HasAVX512F, ""},
			{"AVX512VL", cpu.X86.HasAVX512VL, ""},
		}
	}
	return nil
}

func renderCPUInfo() string {
	table := newTable(false)
	table.Row("GOOS/GOARCH", runtime.GOOS+"/"+runtime.GOARCH)
	table.Row("NumCPU", fmt.Sprint(runtime.NumCPU()))
	table.Row("Dispatch level", hwy.CurrentLevel().String())
	table.Row("Vector width", fmt.Sprintf("%d bytes (%d float32 lanes)", hwy.CurrentWidth(), hwy.MaxLanes[float32]()))
	table.Row("FMA", fmt.Sprint(hwy.HasFMA()))
	table.Row("HWY_NO_SIMD", fmt.Sprint(hwy.NoSimdEnv()))
	table.Row("Default params", sgemm.DefaultParams().String())
	if params, err := sgemm.ParamsFromEnv(); err != nil {
		table.Row("Env params", err.Error())
	} else {
		table.Row("Env params", params.String())
	}

	features := newTable(true)
	features.Row("Feature", "Present", "Note")
	for _, f := range cpuFeatures() {
		features.Row(f.name, fmt.Sprint(f.has), f.note)
	}
	return titleStyle.Render("Highway") + "\n" + table.Render() + "\n" +
		titleStyle.Render("golang.org/x/sys/cpu."+runtime.GOARCH) + "\n" + features.Render()
}

// printCPUInfo writes renderCPUInfo to w.
func printCPUInfo(w io.Writer) error {
	_, err := fmt.Fprintln(w, renderCPUInfo())
	return err
}
