// The memscan tool is a command-line front end for the memory-scanning
// core: it lists processes, runs first/next scans, lists surviving
// locations, and writes values back into a target process.
// Run "memscan help" for a list of commands.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mohsenpakzad/memscan/command"
	"github.com/mohsenpakzad/memscan/session"
	"github.com/mohsenpakzad/memscan/target"
	"github.com/mohsenpakzad/memscan/target/hostadapter"
)

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func main() {
	adapter := hostadapter.New()
	sess := session.New()

	root := &cobra.Command{
		Use:   "memscan",
		Short: "Scan and edit the memory of a running process",
	}

	root.AddCommand(
		newListCmd(adapter),
		newFirstScanCmd(sess, adapter),
		newNextScanCmd(sess),
		newShowCmd(sess),
		newClearCmd(sess),
		newWriteCmd(sess),
	)

	if err := root.Execute(); err != nil {
		exitf("%v\n", err)
	}
}

func newListCmd(adapter target.Adapter) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List running processes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range command.GetProcesses(adapter) {
				fmt.Printf("%6d  %s\n", p.PID, p.Name)
			}
		},
	}
}

func scanInfoFlags(cmd *cobra.Command) {
	cmd.Flags().String("kind", "I32", "value kind (I8,U8,I16,U16,I32,U32,I64,U64,F32,F64)")
	cmd.Flags().String("type", "Exact", "scan type (Exact,Unknown,InRange,Unchanged,Changed,Decreased,Increased,DecreasedBy,IncreasedBy)")
	cmd.Flags().String("value", "", "exact/decreased-by/increased-by literal")
	cmd.Flags().String("start", "", "InRange lower bound")
	cmd.Flags().String("end", "", "InRange upper bound")
}

func scanInfoFromFlags(cmd *cobra.Command) (command.ValueType, command.ScanInfo) {
	kind, _ := cmd.Flags().GetString("kind")
	typ, _ := cmd.Flags().GetString("type")
	value, _ := cmd.Flags().GetString("value")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	return command.ValueType(kind), command.ScanInfo{
		Typ:   command.ScanType(typ),
		Value: command.ScanValue{Exact: value, Start: start, End: end},
	}
}

func newFirstScanCmd(sess *session.Session, adapter target.Adapter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "first-scan",
		Short: "Open a process and run a first scan",
		Run: func(cmd *cobra.Command, args []string) {
			pidStr, _ := cmd.Flags().GetString("pid")
			pid, err := strconv.Atoi(pidStr)
			if err != nil {
				exitf("invalid --pid %q: %v\n", pidStr, err)
			}
			valueType, info := scanInfoFromFlags(cmd)
			if err := command.FirstScan(sess, adapter, pid, valueType, info); err != nil {
				exitf("first scan failed: %v\n", err)
			}
			total, _, _ := command.GetLastScan(sess, valueType, 0, 0)
			fmt.Printf("first scan complete: %d candidate locations\n", total)
		},
	}
	cmd.Flags().String("pid", "", "target process id")
	scanInfoFlags(cmd)
	return cmd
}

func newNextScanCmd(sess *session.Session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next-scan",
		Short: "Narrow the last scan against fresh memory",
		Run: func(cmd *cobra.Command, args []string) {
			valueType, info := scanInfoFromFlags(cmd)
			if err := command.NextScan(sess, valueType, info); err != nil {
				exitf("next scan failed: %v\n", err)
			}
			total, _, _ := command.GetLastScan(sess, valueType, 0, 0)
			fmt.Printf("next scan complete: %d candidate locations\n", total)
		},
	}
	scanInfoFlags(cmd)
	return cmd
}

func newShowCmd(sess *session.Session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the surviving (address, value) pairs of the last scan",
		Run: func(cmd *cobra.Command, args []string) {
			kind, _ := cmd.Flags().GetString("kind")
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			total, entries, err := command.GetLastScan(sess, command.ValueType(kind), limit, offset)
			if err != nil {
				exitf("show failed: %v\n", err)
			}
			for _, e := range entries {
				fmt.Printf("%#x\t%s\n", e.Address, e.Value)
			}
			fmt.Printf("-- %d of %d --\n", len(entries), total)
		},
	}
	cmd.Flags().String("kind", "I32", "value kind")
	cmd.Flags().Int("limit", 50, "max rows to print")
	cmd.Flags().Int("offset", 0, "rows to skip")
	return cmd
}

func newClearCmd(sess *session.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear every per-kind last scan",
		Run: func(cmd *cobra.Command, args []string) {
			command.ClearLastScan(sess)
		},
	}
}

func newWriteCmd(sess *session.Session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write a value into the opened process at an address",
		Run: func(cmd *cobra.Command, args []string) {
			kind, _ := cmd.Flags().GetString("kind")
			addrStr, _ := cmd.Flags().GetString("addr")
			value, _ := cmd.Flags().GetString("value")
			addr, err := strconv.ParseUint(addrStr, 0, 64)
			if err != nil {
				exitf("invalid --addr %q: %v\n", addrStr, err)
			}
			n, err := command.WriteValue(sess, command.ValueType(kind), uintptr(addr), value)
			if err != nil {
				exitf("write failed: %v\n", err)
			}
			fmt.Printf("wrote %d bytes at %#x\n", n, addr)
		},
	}
	cmd.Flags().String("kind", "I32", "value kind")
	cmd.Flags().String("addr", "", "target address, e.g. 0x10000")
	cmd.Flags().String("value", "", "literal to write")
	return cmd
}
