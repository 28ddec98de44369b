package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/moffa90/go-id809/capability"
	"github.com/moffa90/go-id809/sensor"
)

func cmdInfo(ctx context.Context, _ *cli.Context, rt *runtime) error {
	info, err := rt.sensor.DeviceInfo(ctx)
	if err != nil {
		return err
	}
	sn, err := rt.sensor.ModuleSN(ctx)
	if err != nil {
		return err
	}
	level, err := rt.sensor.SecurityLevel(ctx)
	if err != nil {
		return err
	}

	p := rt.sensor.Profile()
	fmt.Fprintf(rt.out, "Device info:    %s\n", info)
	fmt.Fprintf(rt.out, "Capacity:       %s\n", p.Capacity)
	fmt.Fprintf(rt.out, "Serial number:  %s\n", sn)
	fmt.Fprintf(rt.out, "Security level: %d\n", level)
	return nil
}

func cmdDetect(ctx context.Context, _ *cli.Context, rt *runtime) error {
	present, err := rt.sensor.DetectFinger(ctx)
	if err != nil {
		return err
	}
	if present {
		fmt.Fprintln(rt.out, "finger present")
	} else {
		fmt.Fprintln(rt.out, "no finger")
	}
	return nil
}

// enrollTarget returns --id, or the first empty slot when --id is unset.
func enrollTarget(ctx context.Context, c *cli.Context, rt *runtime) (int, error) {
	if id := c.Int("id"); id != 0 {
		return id, nil
	}
	id, err := rt.sensor.GetEmptySlot(ctx)
	if err != nil {
		return 0, fmt.Errorf("find empty slot: %w", err)
	}
	return id, nil
}

func sampleTimeout(c *cli.Context, rt *runtime) time.Duration {
	if c.IsSet("timeout") {
		return c.Duration("timeout")
	}
	return rt.cfg.Sensor.SampleTimeout
}

func cmdEnroll(ctx context.Context, c *cli.Context, rt *runtime) error {
	id, err := enrollTarget(ctx, c, rt)
	if err != nil {
		return err
	}
	if err := rt.sensor.Enroll(ctx, id, sampleTimeout(c, rt)); err != nil {
		var ce *sensor.CaptureError
		if errors.As(err, &ce) {
			return fmt.Errorf("sample %d not captured, nothing was stored: %w", ce.Sample, err)
		}
		return err
	}
	return nil
}

// cmdVerify enrolls first because the driver only searches once a
// template has been committed by the same Sensor.
func cmdVerify(ctx context.Context, c *cli.Context, rt *runtime) error {
	if err := cmdEnroll(ctx, c, rt); err != nil {
		return err
	}

	timeout := sampleTimeout(c, rt)
	for i := 0; i < c.Int("attempts"); i++ {
		if err := rt.sensor.WaitForAbsence(ctx); err != nil {
			return err
		}
		fmt.Fprintln(rt.out, "Place finger to verify")
		id, err := rt.sensor.Verify(ctx, timeout)
		if err != nil {
			return err
		}
		if id == sensor.NoMatch {
			fmt.Fprintln(rt.out, "no match")
		} else {
			fmt.Fprintf(rt.out, "match: template %d\n", id)
		}
	}
	return nil
}

func cmdDelete(ctx context.Context, c *cli.Context, rt *runtime) error {
	switch {
	case c.Bool("all"):
		if err := rt.sensor.DeleteAll(ctx); err != nil {
			return err
		}
		fmt.Fprintln(rt.out, "deleted all templates")
	case c.Int("id") != 0:
		if err := rt.sensor.DeleteTemplate(ctx, c.Int("id")); err != nil {
			return err
		}
		fmt.Fprintf(rt.out, "deleted template %d\n", c.Int("id"))
	default:
		return errors.New("delete needs --id or --all")
	}
	return nil
}

func cmdLED(ctx context.Context, c *cli.Context, rt *runtime) error {
	mode, ok := capability.ParseLEDMode(c.String("mode"))
	if !ok {
		return fmt.Errorf("unknown LED mode %q", c.String("mode"))
	}
	color, ok := capability.ParseLEDColor(c.String("color"))
	if !ok {
		return fmt.Errorf("unknown LED color %q", c.String("color"))
	}
	blink := c.Int("blink")
	if blink < 0 || blink > 255 {
		return fmt.Errorf("blink count %d out of range 0-255", blink)
	}
	return rt.sensor.SetLED(ctx, mode, color, byte(blink))
}

func cmdEmptySlot(ctx context.Context, _ *cli.Context, rt *runtime) error {
	id, err := rt.sensor.GetEmptySlot(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(rt.out, id)
	return nil
}

func cmdSecurityLevel(ctx context.Context, c *cli.Context, rt *runtime) error {
	if c.IsSet("set") {
		if err := rt.sensor.SetSecurityLevel(ctx, c.Int("set")); err != nil {
			return err
		}
	}
	level, err := rt.sensor.SecurityLevel(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(rt.out, level)
	return nil
}

func cmdStandby(ctx context.Context, _ *cli.Context, rt *runtime) error {
	if err := rt.sensor.EnterStandby(ctx); err != nil {
		return err
	}
	fmt.Fprintln(rt.out, "standby")
	return nil
}
