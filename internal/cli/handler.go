//go:generate mockgen -source ./handler.go -destination=./mocks/handler.go -package=mock_cli
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/returns"
)

const (
	actorCLI          = "cli"
	defaultStalledMax = 20
)

type Store interface {
	GetReturn(ctx context.Context, id string) (*domain.Return, error)
	GetReturnByNumber(ctx context.Context, number string) (*domain.Return, error)
	ListReturnsByStatus(ctx context.Context, status domain.ReturnStatus, limit int) ([]*domain.Return, error)
}

type Engine interface {
	ApplyAction(ctx context.Context, returnID string, req returns.AdminRequest, actor string) (*domain.Return, error)
}

// Handler runs reconciliation commands against the live store. Output goes
// to out so sessions can be captured.
type Handler struct {
	store  Store
	engine Engine
	out    io.Writer
}

func New(store Store, engine Engine, out io.Writer) *Handler {
	return &Handler{store: store, engine: engine, out: out}
}

// Execute runs a single command line split into args.
func (h *Handler) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "stalled":
		return h.HandleStalled(ctx, args[1:])
	case "show":
		return h.HandleShow(ctx, args[1:])
	case "retry-refund":
		return h.HandleRetryRefund(ctx, args[1:])
	case "help":
		h.HandleHelp()
		return nil
	default:
		return fmt.Errorf("unknown command %q, try 'help'", args[0])
	}
}

// Run reads commands from in until EOF, "exit" or ctx is done. Command
// errors are printed and do not end the session.
func (h *Handler) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		args := strings.Fields(scanner.Text())
		if len(args) == 1 && args[0] == "exit" {
			return nil
		}
		if err := h.Execute(ctx, args); err != nil {
			fmt.Fprintln(h.out, "Error:", err)
		}
	}
}

func (h *Handler) HandleHelp() {
	fmt.Fprintln(h.out, `Available commands:
	stalled [limit] - List returns waiting at approved_refund
	show <returnID|returnNumber> - Show a return and its status history
	retry-refund <returnID> - Run the refund again for a stalled return
	exit - Exit program`)
}

func (h *Handler) HandleStalled(ctx context.Context, args []string) error {
	limit := defaultStalledMax
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return errors.New("usage: stalled [limit]")
		}
		limit = n
	}

	list, err := h.store.ListReturnsByStatus(ctx, domain.ReturnStatusApprovedRefund, limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(h.out, "No stalled refunds")
		return nil
	}

	table := tablewriter.NewWriter(h.out)
	table.Header("ID", "Number", "Order", "Refund", "Waiting since", "Last note")
	for _, ret := range list {
		if err := table.Append(
			ret.ID,
			ret.ReturnNumber,
			ret.OrderID,
			ret.RefundDetails.RefundAmount.StringFixed(2),
			formatTime(ret.UpdatedAt),
			lastNote(ret),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func (h *Handler) HandleShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: show <returnID|returnNumber>")
	}

	ret, err := h.lookup(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(h.out, "Return %s (%s)\n", ret.ReturnNumber, ret.ID)
	fmt.Fprintf(h.out, "Order:   %s\n", ret.OrderID)
	fmt.Fprintf(h.out, "Status:  %s\n", ret.Status)
	fmt.Fprintf(h.out, "Refund:  %s", ret.RefundDetails.RefundAmount.StringFixed(2))
	if tx := ret.RefundDetails.RefundTransactionID; tx != "" {
		fmt.Fprintf(h.out, " (tx %s)", tx)
	}
	fmt.Fprintln(h.out)

	table := tablewriter.NewWriter(h.out)
	table.Header("Status", "At", "By", "Note")
	for _, entry := range ret.StatusHistory {
		if err := table.Append(string(entry.Status), formatTime(entry.Timestamp), entry.UpdatedBy, entry.Note); err != nil {
			return err
		}
	}
	return table.Render()
}

func (h *Handler) HandleRetryRefund(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: retry-refund <returnID>")
	}

	ret, err := h.engine.ApplyAction(ctx, args[0], returns.AdminRequest{
		Action: returns.ActionProcessRefund,
		Note:   "refund retried from reconcile cli",
	}, actorCLI)
	if err != nil {
		return err
	}

	fmt.Fprintf(h.out, "Return %s is now %s (tx %s)\n",
		ret.ReturnNumber, ret.Status, ret.RefundDetails.RefundTransactionID)
	return nil
}

// lookup accepts either an id or a RET- number.
func (h *Handler) lookup(ctx context.Context, ref string) (*domain.Return, error) {
	if strings.HasPrefix(strings.ToUpper(ref), "RET-") {
		return h.store.GetReturnByNumber(ctx, strings.ToUpper(ref))
	}
	return h.store.GetReturn(ctx, ref)
}

func lastNote(ret *domain.Return) string {
	if n := len(ret.AdminNotes); n > 0 {
		return ret.AdminNotes[n-1].Note
	}
	return ""
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.DateTime)
}
