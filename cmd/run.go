package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/chinmay1088/lumen/account"
	"github.com/chinmay1088/lumen/app"
	"github.com/chinmay1088/lumen/chains/solana"
	"github.com/chinmay1088/lumen/errno"
	"github.com/chinmay1088/lumen/logger"
	"github.com/chinmay1088/lumen/provider"
	"github.com/chinmay1088/lumen/wallet"
	"github.com/fatih/color"
	sol "github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const sessionHelp = `Session commands:
  status                    Show provider, session and account state
  connect                   Ask the wallet to connect
  disconnect                End the wallet session
  create                    Create and fund a throwaway account
  transfer [sol] [address]  Send from the created account (default 1 SOL to the wallet)
  balance [address]         Check a balance (default: connected wallet)
  help                      Show this list
  exit                      Leave the session`

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive wallet session",
	Long: `Start an interactive session. The local wallet extension is unlocked
and injected for lumen to discover; without a wallet (see 'lumen init') the
session runs with no provider.

` + sessionHelp,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func runSession(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	con := newConsole(bufio.NewScanner(os.Stdin))
	host := provider.NewHost()

	ks := openKeystore()
	if ks.Exists() {
		if err := unlockKeystore(ks); err != nil {
			return err
		}
		defer ks.Lock()
		host.Inject(provider.DefaultName, wallet.NewExtension(ks, con.approve))
	} else {
		fmt.Println(color.YellowString("⚠️ No wallet extension installed. Run 'lumen init' to create one."))
	}

	a, err := app.Wire(cfg, host, logger.Named("app"))
	if err != nil {
		return err
	}

	if a.LocateProvider() {
		fmt.Println("✅ Wallet extension detected")
	} else {
		fmt.Println("❌ No wallet provider found")
	}
	printStatus(a.View())
	fmt.Println("💡 Type 'help' for commands")

	for ctx.Err() == nil {
		line, ok := con.readLine(color.CyanString("lumen> "))
		if !ok {
			fmt.Println()
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "status":
			printStatus(a.View())
		case "connect":
			runConnect(ctx, a)
		case "disconnect":
			snap := a.DisconnectWallet(ctx)
			fmt.Printf("🔌 Wallet %s\n", snap.State)
		case "create":
			runCreate(ctx, a)
		case "transfer":
			runTransfer(ctx, a, fields[1:])
		case "balance":
			runSessionBalance(ctx, a, fields[1:])
		case "help":
			fmt.Println(sessionHelp)
		case "exit", "quit":
			return nil
		default:
			fmt.Printf("Unknown command %q. Type 'help' for commands\n", fields[0])
		}
	}
	return nil
}

func printStatus(v app.View) {
	fmt.Println()
	if !v.ProviderFound {
		fmt.Println("🧩 Provider:  none")
	} else {
		fmt.Println("🧩 Provider:  wallet extension")
		fmt.Printf("🌐 Network:   %s\n", clusterName(v.Endpoint))
	}

	if v.Session.Connected() {
		fmt.Printf("🔗 Session:   %s %s\n", color.GreenString("connected"), v.Session.Identity)
	} else {
		fmt.Printf("🔗 Session:   %s\n", color.YellowString(v.Session.State.String()))
	}

	if v.Account != nil {
		fmt.Printf("👛 Account:   %s\n", v.Account.PublicKey())
		fmt.Printf("   Balance:   %s\n", solana.FormatBalance(v.Account.Balance))
	}
	fmt.Println()
}

func runConnect(ctx context.Context, a *app.App) {
	snap := a.ConnectWallet(ctx)
	switch {
	case snap.Connected():
		fmt.Printf("✅ Connected: %s\n", snap.Identity)
	case snap.Rejected:
		fmt.Println(color.YellowString("🚫 Connection request rejected"))
	case !a.View().ProviderFound:
		fmt.Println("❌ No wallet provider found")
	default:
		fmt.Println("❌ Could not connect to the wallet")
	}
}

func runCreate(ctx context.Context, a *app.App) {
	var (
		acct *account.ManagedAccount
		err  error
	)
	withSpinner("[cyan]Requesting airdrop and waiting for confirmation...[reset]", func() {
		acct, err = a.CreateFundedAccount(ctx)
	})

	switch {
	case err != nil:
		printError("Account creation failed", err)
	case acct == nil:
		fmt.Println("❌ No wallet provider found")
	default:
		fmt.Printf("✅ Account created: %s\n", acct.PublicKey())
		fmt.Printf("   Balance: %s\n", solana.FormatBalance(acct.Balance))
	}
}

func runTransfer(ctx context.Context, a *app.App, args []string) {
	lamports := app.WalletTransfer
	var dest sol.PublicKey

	if len(args) > 0 {
		amount, err := solana.SOLToLamports(args[0])
		if err != nil {
			fmt.Printf("❌ Invalid amount: %v\n", err)
			return
		}
		lamports = amount
	}
	if len(args) > 1 {
		parsed, err := solana.ParseAddress(args[1])
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			return
		}
		dest = parsed
	}

	v := a.View()
	if v.Account == nil {
		fmt.Println("❌ No account to send from. Run 'create' first")
		return
	}

	var (
		sig sol.Signature
		err error
	)
	withSpinner("[cyan]Sending transaction and waiting for confirmation...[reset]", func() {
		sig, err = a.TransferFromAccount(ctx, dest, lamports)
	})

	switch {
	case err != nil:
		printError("Transfer failed", err)
	case sig == (sol.Signature{}):
		fmt.Println("❌ No wallet provider found")
	default:
		fmt.Printf("✅ Sent %s\n", solana.FormatBalance(lamports))
		fmt.Printf("📝 Signature: %s\n", sig)
		fmt.Printf("🔗 Explorer: https://solscan.io/tx/%s?cluster=devnet\n", sig)
		if acct := a.View().Account; acct != nil {
			fmt.Printf("   Account balance: %s\n", solana.FormatBalance(acct.Balance))
		}
	}
}

func runSessionBalance(ctx context.Context, a *app.App, args []string) {
	var target sol.PublicKey
	if len(args) > 0 {
		parsed, err := solana.ParseAddress(args[0])
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			return
		}
		target = parsed
	} else {
		snap := a.View().Session
		if !snap.Connected() {
			fmt.Println("❌ Wallet not connected. Run 'connect' or pass an address")
			return
		}
		target = snap.Identity
	}

	balance, ok := a.Balance(ctx, target)
	if !ok {
		// balance display is best-effort
		fmt.Printf("🟣 %s: balance unavailable\n", target)
		return
	}
	fmt.Printf("🟣 %s: %s\n", target, solana.FormatBalance(balance))
}

func printError(what string, err error) {
	code, message := errno.Decode(err)
	fmt.Printf("❌ %s [%d] %s\n", what, code, message)
	logger.Log.Debug(what, zap.Error(err))
}
