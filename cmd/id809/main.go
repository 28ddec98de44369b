// Command id809 drives an ID809 fingerprint module from the shell.
//
// Usage:
//
//	id809 [--config id809.yaml] [--transport i2c|serial|sim] <command> [flags]
//
// Run "id809 help" for the list of commands.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "id809:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "id809"
	app.Usage = "ID809 fingerprint module tool"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "path to YAML configuration",
			EnvVar: "ID809_CONFIG",
		},
		cli.StringFlag{
			Name:  "transport, t",
			Usage: "override transport.kind (i2c, serial, sim)",
		},
		cli.BoolFlag{
			Name:  "simulate",
			Usage: "talk to a simulated module, same as --transport sim",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "log every exchange",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "info",
			Usage:  "show device info, capacity, serial number and security level",
			Action: withSensor(cmdInfo),
		},
		{
			Name:   "detect",
			Usage:  "report whether a finger is on the sensor",
			Action: withSensor(cmdDetect),
		},
		{
			Name:  "enroll",
			Usage: "capture three samples and store a template",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "id", Usage: "template ID, 0 picks the first empty slot"},
				cli.DurationFlag{Name: "timeout", Usage: "per-sample finger timeout"},
			},
			Action: withSensor(cmdEnroll),
		},
		{
			Name:  "verify",
			Usage: "enroll a template, then search for matching fingers",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "id", Usage: "template ID, 0 picks the first empty slot"},
				cli.DurationFlag{Name: "timeout", Usage: "per-capture finger timeout"},
				cli.IntFlag{Name: "attempts", Value: 1, Usage: "number of searches after enrolling"},
			},
			Action: withSensor(cmdVerify),
		},
		{
			Name:  "delete",
			Usage: "delete one template or all of them",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "id", Usage: "template ID to delete"},
				cli.BoolFlag{Name: "all", Usage: "delete every template"},
			},
			Action: withSensor(cmdDelete),
		},
		{
			Name:  "led",
			Usage: "set the ring LED",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "mode", Value: "keeps-on", Usage: "breathing, fast-blink, keeps-on, off, fade-in, fade-out, slow-blink"},
				cli.StringFlag{Name: "color", Value: "blue", Usage: "green, red, yellow, blue, cyan, magenta, white"},
				cli.IntFlag{Name: "blink", Usage: "blink count, 0 repeats forever"},
			},
			Action: withSensor(cmdLED),
		},
		{
			Name:   "empty-slot",
			Usage:  "print the lowest free template ID",
			Action: withSensor(cmdEmptySlot),
		},
		{
			Name:  "security-level",
			Usage: "print or change the matching security level",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "set", Usage: "new level 1-5"},
			},
			Action: withSensor(cmdSecurityLevel),
		},
		{
			Name:   "standby",
			Usage:  "put the module into low power standby",
			Action: withSensor(cmdStandby),
		},
	}
	return app
}
