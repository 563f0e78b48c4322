package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/1broseidon/surfshell/internal/ipc"
)

func printCtlUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: surfshell ctl [--socket PATH] <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  status                    Show daemon status")
	fmt.Fprintln(w, "  monitors                  List monitors")
	fmt.Fprintln(w, "  snapshot [--json]         Print the session snapshot")
	fmt.Fprintln(w, "  overview                  Toggle the multitask view")
	fmt.Fprintln(w, "  exit-overview [surface]   Leave the multitask view, optionally activating a surface")
	fmt.Fprintln(w, "  show-desktop [on|off]     Set or toggle show-desktop")
	fmt.Fprintln(w, "  tile                      Tile the current workspace")
	fmt.Fprintln(w, "  untile                    Restore tiled windows to normal")
	fmt.Fprintln(w, "  cycle [--reverse]         Switch to the next tiling layout")
	fmt.Fprintln(w, "  layouts                   List tiling layouts")
	fmt.Fprintln(w, "  apply [--tile] <layout>   Make a layout active")
	fmt.Fprintln(w, "  workspace <n>             Switch workspace")
	fmt.Fprintln(w, "  activate <surface>        Activate a surface")
}

func runCtl(args []string) int {
	fs := flag.NewFlagSet("ctl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "Daemon socket path (default: $XDG_RUNTIME_DIR/surfshell.sock)")
	fs.Usage = func() { printCtlUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		printCtlUsage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()
	if *socket != "" {
		client = ipc.NewClientAt(*socket)
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if cmd == "help" {
		printCtlUsage(os.Stdout)
		return 0
	}
	if err := ctlCommand(client, cmd, rest); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if _, ok := err.(usageError); ok {
			return 2
		}
		return 1
	}
	return 0
}

type usageError string

func (e usageError) Error() string { return string(e) }

func ctlCommand(client *ipc.Client, cmd string, args []string) error {
	switch cmd {
	case "status":
		status, err := client.GetStatus()
		if err != nil {
			return err
		}
		printStatus(os.Stdout, status)
		return nil

	case "monitors":
		monitors, err := client.GetMonitors()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tGEOMETRY")
		for _, m := range monitors {
			fmt.Fprintf(tw, "%d\t%s\t%dx%d+%d+%d\n", m.ID, m.Name, m.Width, m.Height, m.X, m.Y)
		}
		return tw.Flush()

	case "snapshot":
		fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		asJSON := fs.Bool("json", false, "Print JSON instead of YAML")
		if err := fs.Parse(args); err != nil {
			return usageError(err.Error())
		}
		snap, err := client.Snapshot()
		if err != nil {
			return err
		}
		if *asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		if code := printYAML(snap); code != 0 {
			return fmt.Errorf("failed to encode snapshot")
		}
		return nil

	case "overview":
		return client.ToggleOverview()

	case "exit-overview":
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return client.ExitOverview(name)

	case "show-desktop":
		var on *bool
		if len(args) > 0 {
			v, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			on = &v
		}
		return client.ShowDesktop(on)

	case "tile":
		n, err := client.Tile()
		if err != nil {
			return err
		}
		fmt.Printf("Tiled %d surfaces\n", n)
		return nil

	case "untile":
		n, err := client.Untile()
		if err != nil {
			return err
		}
		fmt.Printf("Restored %d surfaces\n", n)
		return nil

	case "cycle":
		fs := flag.NewFlagSet("cycle", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		reverse := fs.Bool("reverse", false, "Cycle backwards")
		if err := fs.Parse(args); err != nil {
			return usageError(err.Error())
		}
		delta := 1
		if *reverse {
			delta = -1
		}
		name, err := client.CycleLayout(delta)
		if err != nil {
			return err
		}
		fmt.Printf("Active layout: %s\n", name)
		return nil

	case "layouts":
		layouts, err := client.ListLayouts()
		if err != nil {
			return err
		}
		for _, name := range layouts.Layouts {
			var marks []string
			if name == layouts.ActiveLayout {
				marks = append(marks, "active")
			}
			if name == layouts.DefaultLayout {
				marks = append(marks, "default")
			}
			if len(marks) > 0 {
				fmt.Printf("%s (%s)\n", name, strings.Join(marks, ", "))
			} else {
				fmt.Println(name)
			}
		}
		return nil

	case "apply":
		fs := flag.NewFlagSet("apply", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		tileNow := fs.Bool("tile", false, "Tile the current workspace with the layout")
		if err := fs.Parse(args); err != nil {
			return usageError(err.Error())
		}
		if fs.NArg() != 1 {
			return usageError("apply requires <layout>")
		}
		return client.ApplyLayout(fs.Arg(0), *tileNow)

	case "workspace":
		if len(args) != 1 {
			return usageError("workspace requires <n>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return usageError(fmt.Sprintf("invalid workspace %q", args[0]))
		}
		return client.SwitchWorkspace(id)

	case "activate":
		if len(args) != 1 {
			return usageError("activate requires <surface>")
		}
		return client.Activate(args[0])

	default:
		return usageError("unknown ctl command: " + cmd)
	}
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, usageError(fmt.Sprintf("expected on or off, got %q", s))
	}
}

func printStatus(w io.Writer, st *ipc.StatusData) {
	fmt.Fprintln(w, "Daemon: running")
	fmt.Fprintf(w, "Uptime: %s\n", time.Duration(st.UptimeSeconds)*time.Second)
	fmt.Fprintf(w, "Workspace: %d of %d\n", st.Workspace, st.WorkspaceCount)
	fmt.Fprintf(w, "Surfaces: %d\n", st.SurfaceCount)
	if st.Activated != "" {
		fmt.Fprintf(w, "Activated: %s\n", st.Activated)
	}
	fmt.Fprintf(w, "Multitask view: %s\n", st.Overview)
	fmt.Fprintf(w, "Show desktop: %t\n", st.ShowDesktop)
	fmt.Fprintf(w, "Layout: %s\n", st.ActiveLayout)
}
