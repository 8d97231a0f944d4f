package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"nifty-condor-bot/internal/dashboard"
	"nifty-condor-bot/internal/models"
	"nifty-condor-bot/internal/notify"
	"nifty-condor-bot/internal/storage"
	"nifty-condor-bot/internal/strategy"
)

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

// runEntry performs one entry evaluation cycle.
func (a *app) runEntry() error {
	if !a.cfg.IsWithinMarketHours(a.now()) {
		a.logger.Info("Outside market hours, skipping entry cycle")
		return nil
	}

	if _, err := a.store.Load(); err == nil {
		a.logger.Info("Position already open, skipping entry cycle")
		return nil
	} else if !errors.Is(err, storage.ErrNoPosition) {
		return fmt.Errorf("loading position: %w", err)
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	snap, err := a.provider.FetchChain(ctx, a.cfg.Market.Symbol)
	if err != nil {
		a.logger.WithError(err).Error("Snapshot fetch failed")
		a.send(notify.FormatError("entry snapshot", err))
		return err
	}

	sig, sup := strategy.EvaluateEntry(snap, a.strat)
	if sup != nil {
		a.logger.WithFields(logrus.Fields{
			"reason": sup.Reason,
			"detail": sup.Detail,
		}).Info("Entry suppressed")
		if err := a.rec.RecordSuppression(string(sup.Reason), sup.Detail, snap.Spot, snap.VIX); err != nil {
			a.logger.WithError(err).Warn("Failed to record suppression")
		}
		if sup.Reportable() {
			a.send(notify.FormatSkip(a.cfg.Market.Symbol, sup))
		}
		return nil
	}

	a.logger.WithFields(logrus.Fields{
		"id":     sig.ID,
		"score":  sig.Grade.Score,
		"letter": sig.Grade.Letter,
		"credit": sig.Risk.NetPremium,
	}).Info("Entry signal fired")

	pos := models.NewPositionFromSignal(sig)
	if err := a.store.Save(pos); err != nil {
		return fmt.Errorf("persisting position: %w", err)
	}
	if err := a.rec.RecordEntry(sig); err != nil {
		a.logger.WithError(err).Warn("Failed to record signal")
	}
	a.send(notify.FormatEntrySignal(sig))
	return nil
}

// runExit performs one exit evaluation cycle against the open position.
func (a *app) runExit() error {
	pos, err := a.store.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoPosition) {
			a.logger.Info("No open position, skipping exit cycle")
			return nil
		}
		return fmt.Errorf("loading position: %w", err)
	}
	if err := pos.Validate(); err != nil {
		return fmt.Errorf("stored position failed validation: %w", err)
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	snap, err := a.provider.FetchChain(ctx, a.cfg.Market.Symbol)
	if err != nil {
		a.logger.WithError(err).Error("Snapshot fetch failed")
		a.send(notify.FormatError("exit snapshot", err))
		return err
	}

	now := a.now().In(a.cfg.Location())
	dec := strategy.EvaluateExit(snap, pos, a.strat, now)
	if dec.Action == strategy.ActionHold {
		a.logger.WithFields(logrus.Fields{
			"cost_known": dec.CostKnown,
			"cost":       dec.CurrentCost,
			"pnl":        dec.PnL,
			"note":       dec.Note,
		}).Info("Holding position")
		return nil
	}

	if err := pos.Transition(dec.Reason.State(), exitCondition(dec.Reason)); err != nil {
		return fmt.Errorf("state transition: %w", err)
	}
	if err := a.store.Update(pos); err != nil {
		return fmt.Errorf("persisting position state: %w", err)
	}

	a.logger.WithFields(logrus.Fields{
		"id":     pos.ID,
		"reason": dec.Reason,
		"cost":   dec.CurrentCost,
		"pnl":    dec.PnL,
	}).Info("Exit signal fired")

	if err := a.rec.RecordExit(pos.ID, dec.Reason, dec.CurrentCost, dec.PnL); err != nil {
		a.logger.WithError(err).Warn("Failed to record exit")
	}
	a.send(notify.FormatExitSignal(pos, dec))

	if err := a.store.Clear(); err != nil {
		return fmt.Errorf("clearing position: %w", err)
	}
	return nil
}

func exitCondition(reason models.ExitReason) string {
	switch reason {
	case models.ExitTargetHit:
		return "target_reached"
	case models.ExitStoppedOut:
		return "stop_breached"
	default:
		return "cutoff_reached"
	}
}

// runDryRun evaluates one live snapshot and prints the outcome to stdout
// without persisting or notifying anything.
func (a *app) runDryRun() error {
	ctx, cancel := contextWithTimeout()
	defer cancel()

	snap, err := a.provider.FetchChain(ctx, a.cfg.Market.Symbol)
	if err != nil {
		return fmt.Errorf("snapshot fetch: %w", err)
	}

	fmt.Printf("%s  spot=%.2f  vix=%.2f  expiry=%s  strikes=%d\n\n",
		snap.Symbol, snap.Spot, snap.VIX, snap.Expiry, len(snap.Strikes))

	sig, sup := strategy.EvaluateEntry(snap, a.strat)
	if sup != nil {
		fmt.Printf("no signal: %s\n", sup)
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Action", "Strike", "Type", "Premium")
	for _, leg := range sig.Legs.All() {
		verb := "SELL"
		if leg.Role == models.RoleBuy {
			verb = "BUY"
		}
		table.Append(verb, fmt.Sprintf("%.0f", leg.Strike), string(leg.Type),
			fmt.Sprintf("%.2f", leg.Premium))
	}
	table.Render()

	fmt.Printf("\ncredit=%.2f  target=%.2f  stop=%.2f  grade=%s (%d)\n",
		sig.Risk.NetPremium, sig.Risk.TargetExit, sig.Risk.StopLoss,
		sig.Grade.Letter, sig.Grade.Score)
	fmt.Printf("max profit=%.0f  max loss=%.0f  lot=%d\n",
		sig.Risk.MaxProfit, sig.Risk.MaxLoss, sig.Risk.LotSize)
	fmt.Printf("max pain=%.0f  ce wall=%.0f  pe wall=%.0f\n",
		sig.OI.MaxPain, sig.OI.CEWall, sig.OI.PEWall)
	return nil
}

// runDaemon schedules entry and exit cycles on cron expressions and serves
// the dashboard until interrupted.
func (a *app) runDaemon() error {
	loc := a.cfg.Location()

	c := cron.New(cron.WithSeconds(), cron.WithLocation(loc))
	if _, err := c.AddFunc(a.cfg.Schedule.EntryCron, func() {
		if err := a.runEntry(); err != nil {
			a.logger.WithError(err).Error("Entry cycle failed")
		}
	}); err != nil {
		return fmt.Errorf("entry schedule: %w", err)
	}
	if _, err := c.AddFunc(a.cfg.Schedule.ExitCron, func() {
		if err := a.runExit(); err != nil {
			a.logger.WithError(err).Error("Exit cycle failed")
		}
	}); err != nil {
		return fmt.Errorf("exit schedule: %w", err)
	}

	var dash *dashboard.Server
	if a.cfg.Dashboard.Port > 0 {
		dash = dashboard.NewServer(dashboard.Config{
			Port:      a.cfg.Dashboard.Port,
			AuthToken: a.cfg.Dashboard.AuthToken,
		}, a.store, a.rec, a.logger)
		go func() {
			if err := dash.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.WithError(err).Error("Dashboard server failed")
			}
		}()
	}

	c.Start()
	a.logger.WithFields(logrus.Fields{
		"entry_cron": a.cfg.Schedule.EntryCron,
		"exit_cron":  a.cfg.Schedule.ExitCron,
		"timezone":   loc.String(),
	}).Info("Scheduler started")
	a.send(notify.FormatStartup(a.cfg.Market.Symbol, a.cfg.Schedule.EntryCron, a.cfg.Schedule.ExitCron))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("Shutting down")
	stopCtx := c.Stop()
	<-stopCtx.Done()

	if dash != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := dash.Shutdown(ctx); err != nil {
			a.logger.WithError(err).Warn("Dashboard shutdown failed")
		}
	}
	return nil
}
