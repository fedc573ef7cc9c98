package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alejandrodnm/predictbet/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier imprimiendo rondas liquidadas.
type Console struct {
	out   io.Writer
	table bool // tabla completa de apuestas, o una línea compacta
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// RoundSettled imprime el desenlace de una ronda en el modo configurado.
func (c *Console) RoundSettled(_ context.Context, report domain.RoundReport) error {
	if c.table {
		c.printFull(report)
	} else {
		c.printCompact(report)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(report domain.RoundReport) {
	r := report.Round
	winners, paid := summarize(report.Outcomes)
	fmt.Fprintf(c.out, "[%s] round %d %s %d→%d winner=%s up:%d down:%d winners:%d paid:%d\n",
		time.Now().Format("15:04:05"),
		r.ID, r.Status, r.EntryPrice, r.SettlementPrice, r.Winner,
		r.PoolUp, r.PoolDown, winners, paid)
}

// printFull imprime la cabecera de la ronda más la tabla de apuestas.
func (c *Console) printFull(report domain.RoundReport) {
	r := report.Round
	fmt.Fprintf(c.out, "\nround %d — %s | entry %d → settlement %d | winner %s | pools UP:%d DOWN:%d\n",
		r.ID, r.Status, r.EntryPrice, r.SettlementPrice, r.Winner, r.PoolUp, r.PoolDown)

	if len(report.Outcomes) == 0 {
		fmt.Fprintln(c.out, "  (sin apuestas)")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Bettor", "Dir", "Stake", "Result", "Payout")

	for _, o := range report.Outcomes {
		result := "lost"
		payout := "-"
		if o.Won {
			result = "won"
			payout = fmt.Sprintf("%d", o.Payout)
		}
		table.Append(
			string(o.Bet.Bettor),
			o.Bet.Direction.String(),
			fmt.Sprintf("%d", o.Bet.Amount),
			result,
			payout,
		)
	}

	table.Render()
}

// PrintHistory imprime el histórico de rondas como tabla resumen.
func (c *Console) PrintHistory(reports []domain.RoundReport) {
	if len(reports) == 0 {
		fmt.Fprintln(c.out, "sin rondas registradas")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Round", "Status", "Entry", "Settlement", "Winner", "Pool UP", "Pool DOWN", "Bets", "Paid")

	for _, rep := range reports {
		r := rep.Round
		_, paid := summarize(rep.Outcomes)
		table.Append(
			fmt.Sprintf("%d", r.ID),
			r.Status.String(),
			fmt.Sprintf("%d", r.EntryPrice),
			fmt.Sprintf("%d", r.SettlementPrice),
			r.Winner.String(),
			fmt.Sprintf("%d", r.PoolUp),
			fmt.Sprintf("%d", r.PoolDown),
			fmt.Sprintf("%d", len(rep.Outcomes)),
			fmt.Sprintf("%d", paid),
		)
	}

	table.Render()
}

// summarize cuenta ganadores y suma pagos emitidos.
func summarize(outcomes []domain.BetOutcome) (winners int, paid uint64) {
	for _, o := range outcomes {
		if o.Won {
			winners++
			paid += o.Payout
		}
	}
	return winners, paid
}
