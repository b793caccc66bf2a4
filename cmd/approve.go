package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chinmay1088/lumen/wallet"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// console is the single reader of stdin during a session; the wallet's
// approval prompts read from it too.
type console struct {
	in *bufio.Scanner
}

func newConsole(s *bufio.Scanner) *console {
	return &console{in: s}
}

func (c *console) readLine(prompt string) (string, bool) {
	fmt.Print(prompt)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// approve is the wallet extension's confirmation popup.
func (c *console) approve(ctx context.Context, req wallet.ApprovalRequest) bool {
	fmt.Println()
	fmt.Printf("🔔 %s request from lumen\n", color.CyanString(string(req.Method)))
	fmt.Printf("   Account: %s\n", req.Account)
	fmt.Printf("   %s\n", req.Summary)
	fmt.Printf("⚠️ You are on %s. No real funds are at stake.\n", clusterName(cfg.Network.RPCURL))

	response, ok := c.readLine("Press y to approve or n to reject (y/n): ")
	if !ok {
		return false
	}
	response = strings.ToLower(response)
	return response == "y" || response == "yes"
}

// withSpinner shows an indeterminate spinner while fn blocks.
func withSpinner(description string, fn func()) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	fn()
	close(done)
	wg.Wait()
	_ = bar.Finish()
}
