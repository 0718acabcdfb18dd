package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/money"
	"github.com/globalremit/teller/internal/wizard"
)

// styles
var titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewWizard:
		body = a.renderWizard()
	case viewExchange:
		body = a.renderExchange()
	case viewTransactions:
		body = a.renderTransactions()
	case viewPayouts:
		body = a.renderPayouts()
	case viewClients:
		body = a.renderClients()
	case viewRegister:
		body = a.renderRegister()
	case viewReports:
		body = a.renderReports()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderDashboard()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

func (a *App) renderDashboard() string {
	title := titleStyle.Render("Global Remit Teller")
	out := title + "\n"
	out += fmt.Sprintf("Operator: %s\n", a.cfg.Teller.Operator)
	if len(a.balances) > 0 {
		var parts []string
		for _, b := range a.balances {
			parts = append(parts, fmt.Sprintf("%s %s%s", b.Currency, money.Symbol(b.Currency), b.Balance.StringFixed(2)))
		}
		out += "Drawer: " + strings.Join(parts, "  ") + "\n"
	}
	out += fmt.Sprintf("Transfers: %d  Open payouts: %d  Clients: %d\n", len(a.transfers), a.openPayoutCount(), len(a.clients))
	out += "\nRecent activity:\n"
	recent := a.transfers
	if len(recent) > 5 {
		recent = recent[:5]
	}
	if len(recent) == 0 {
		out += "  (no transfers yet)\n"
	}
	for _, t := range recent {
		out += "  " + a.transferLine(t) + "\n"
	}
	out += "\n[s] Send money  [x] Exchange  [t] Transactions  [o] Payouts  [c] Clients  [g] Register  [r] Reports  [p] Settings  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) openPayoutCount() int {
	n := 0
	for _, p := range a.payouts {
		if p.Status == repository.PayoutPendingPickup || p.Status == repository.PayoutReady {
			n++
		}
	}
	return n
}

// wizard

func (a *App) renderWizard() string {
	title := titleStyle.Render("Send Money")
	out := title + "\n" + a.renderStepIndicator() + "\n\n"

	if a.wiz.Complete() {
		out += "Transfer complete.\n"
		if t := a.lastTransfer; t != nil {
			out += fmt.Sprintf("  %s  %s %s sent to %s\n", t.ID, t.Amount.StringFixed(2), t.SourceCurrency, a.wiz.Draft().Receiver.Name)
			out += fmt.Sprintf("  Fee %s  Charged %s %s  Receiver gets %s %s\n",
				t.Fee.StringFixed(2), t.Total.StringFixed(2), t.SourceCurrency,
				t.RecipientAmount.StringFixed(2), t.TargetCurrency)
		}
		out += "\n[n] Send another  [esc] Dashboard  [q] Quit"
		if a.status != "" {
			out += "\n" + a.status
		}
		return out
	}

	if a.wiz.Submitting() {
		out += "Submitting transfer...\n\n[esc] Cancel"
		if a.status != "" {
			out += "\n" + a.status
		}
		return out
	}

	step := a.wiz.ActiveStep()
	out += wizard.Steps[step].Description + "\n\n"
	out += a.renderWizardStep(step)
	out += a.renderStepErrors()
	out += "\n[←] Back  [→/enter] Next  [1-5] Jump  [esc] Exit  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderStepIndicator() string {
	var parts []string
	for i, s := range wizard.Steps {
		step := wizard.Step(i)
		marker := fmt.Sprintf("%d", i+1)
		if a.wiz.Completed(step) {
			marker = "✓"
		}
		label := fmt.Sprintf("%s %s", marker, s.Title)
		if step == a.wiz.ActiveStep() {
			label = "▶ " + label
		}
		parts = append(parts, "["+label+"]")
	}
	return strings.Join(parts, " ")
}

func (a *App) renderWizardStep(step wizard.Step) string {
	d := a.wiz.Draft()
	switch step {
	case wizard.StepSender:
		out := "Sender: " + clientLine(d.Sender) + "\n"
		out += "\n[c] Choose client  [n] New client\n"
		return out
	case wizard.StepReceiver:
		out := "Sender:   " + clientLine(d.Sender) + "\n"
		out += "Receiver: " + clientLine(d.Receiver) + "\n"
		out += "\n[c] Choose client  [n] New client  [m] Same as sender\n"
		return out
	case wizard.StepDetails:
		rows := []struct {
			label string
			value string
		}{
			{"Source of funds", wizard.OptionLabel(wizard.SourceOfFundsOptions, d.SourceOfFunds)},
			{"Purpose", wizard.OptionLabel(wizard.PurposeOptions, d.PurposeOfTransfer)},
			{"Transfer type", wizard.OptionLabel(wizard.TransferTypeOptions, d.TransferType)},
		}
		out := ""
		for i, r := range rows {
			marker := " "
			if i == a.detailsFocus {
				marker = "▶"
			}
			value := r.value
			if value == "" {
				value = "(not set)"
			}
			out += fmt.Sprintf("%s %-16s %s\n", marker, r.label, value)
		}
		operator := d.Operator
		if operator == "" {
			operator = "(not set)"
		}
		out += fmt.Sprintf("  %-16s %s\n", "Operator", operator)
		out += "\n[↑/↓] Field  [space] Cycle option  [e] Edit operator\n"
		return out
	case wizard.StepAmount:
		out := fmt.Sprintf("Amount:  %s %s\n", orPlaceholder(d.Amount, "(not set)"), d.SourceCurrency)
		out += fmt.Sprintf("Pair:    %s → %s  rate %s\n", d.SourceCurrency, d.TargetCurrency, d.ExchangeRate)
		if d.Fee != "" {
			out += fmt.Sprintf("Fee:            %s%s\n", money.Symbol(d.SourceCurrency), d.Fee)
			out += fmt.Sprintf("Total charged:  %s%s\n", money.Symbol(d.SourceCurrency), d.Total)
			out += fmt.Sprintf("Receiver gets:  %s%s %s\n", money.Symbol(d.TargetCurrency), d.RecipientAmount, d.TargetCurrency)
		}
		out += "\n[a] Edit amount  [c] Cycle source currency  [v] Cycle target currency\n"
		return out
	case wizard.StepConfirm:
		out := "Review:\n"
		out += "  Sender:    " + clientLine(d.Sender) + "\n"
		out += "  Receiver:  " + clientLine(d.Receiver) + "\n"
		out += fmt.Sprintf("  Details:   %s, %s, %s\n",
			wizard.OptionLabel(wizard.SourceOfFundsOptions, d.SourceOfFunds),
			wizard.OptionLabel(wizard.PurposeOptions, d.PurposeOfTransfer),
			wizard.OptionLabel(wizard.TransferTypeOptions, d.TransferType))
		out += fmt.Sprintf("  Amount:    %s %s (fee %s, total %s)\n", d.Amount, d.SourceCurrency, d.Fee, d.Total)
		out += fmt.Sprintf("  Receiver gets: %s %s at rate %s\n", d.RecipientAmount, d.TargetCurrency, d.ExchangeRate)
		out += fmt.Sprintf("  Operator:  %s\n", d.Operator)
		check := "[ ]"
		if d.TermsAccepted {
			check = "[x]"
		}
		out += fmt.Sprintf("\n%s I confirm the details are correct and terms are accepted\n", check)
		out += "\n[a] Toggle confirmation  [enter] Submit\n"
		return out
	}
	return ""
}

func (a *App) renderStepErrors() string {
	errs := a.wiz.Errors()
	if len(errs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := "\n"
	for _, k := range keys {
		out += fmt.Sprintf("! %s: %s\n", k, errs[k])
	}
	return out
}

func clientLine(c *repository.Client) string {
	if c == nil {
		return "(none selected)"
	}
	return fmt.Sprintf("%s  %s  %s  [%s]", c.Name, c.Phone, c.ID, c.RiskRating)
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}

// exchange

func (a *App) renderExchange() string {
	title := titleStyle.Render("Currency Exchange")
	out := title + "\n"
	out += fmt.Sprintf("Rates per USD (updated %s):\n", a.board.UpdatedAt().In(a.tz).Format("15:04:05"))
	for _, r := range a.board.Rows() {
		out += fmt.Sprintf("  %s %-4s %s\n", money.Symbol(r.Code), r.Code, r.PerUSD.String())
	}
	out += "\nClient: " + clientLine(a.exClient) + "\n"
	out += fmt.Sprintf("Exchange %s %s → %s\n", orPlaceholder(a.exAmount, "(no amount)"), a.exSrc(), a.exDst())
	if q := a.exQuote; q != nil {
		out += fmt.Sprintf("  Rate %s  Fee %s  Total charged %s %s  Client receives %s %s\n",
			q.Rate.String(), q.Fee.StringFixed(2), q.Total.StringFixed(2), a.exSrc(),
			q.Recipient.StringFixed(2), a.exDst())
	}
	out += "\n[c] Client  [a] Amount  [f] From currency  [y] To currency  [r] Refresh rates  [enter] Record  [esc] Back  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

// transactions

func (a *App) renderTransactions() string {
	title := titleStyle.Render("Transactions")
	search := a.txSearch
	if a.txSearching {
		search += "_"
	}
	out := title + "\n"
	out += fmt.Sprintf("Type: %s  Status: %s  Search: %s\n\n", filterLabel(a.txKind), filterLabel(a.txStatus), orPlaceholder(search, "(none)"))
	if len(a.transfers) == 0 {
		out += "No transactions match.\n"
	}
	for i, t := range a.transfers {
		marker := " "
		if i == a.txCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s\n", marker, a.transferLine(t))
	}
	out += "\n[f] Type filter  [u] Status filter  [/] Search  [esc] Back  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) transferLine(t repository.Transfer) string {
	who := t.SenderName
	if t.Kind == repository.KindRemittance && t.ReceiverName != "" {
		who = t.SenderName + " → " + t.ReceiverName
	}
	return fmt.Sprintf("%s  %s  %-11s  %-36s  %9s %s  [%s]",
		t.ID, t.CreatedAt.In(a.tz).Format(a.dateFormat), t.Kind, who,
		t.Amount.StringFixed(2), t.SourceCurrency, t.Status)
}

// payouts

func (a *App) renderPayouts() string {
	title := titleStyle.Render("Payouts")
	scope := "open"
	if a.poShowAll {
		scope = "all"
	}
	out := title + "\n"
	out += fmt.Sprintf("Showing %s payouts\n\n", scope)
	if len(a.payouts) == 0 {
		out += "No payouts.\n"
	}
	for i, p := range a.payouts {
		marker := " "
		if i == a.poCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s  %-22s  %9s %s  [%s]\n", marker, p.ID, p.ReceiverName, p.Amount.StringFixed(2), p.Currency, p.Status)
	}
	out += "\n[y] Mark paid  [n] Cancel payout  [v] Toggle open/all  [esc] Back  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

// clients

func (a *App) renderClients() string {
	title := titleStyle.Render("Clients")
	query := a.clientQuery
	if a.clientSearching {
		query += "_"
	}
	out := title + "\n"
	out += "Search: " + orPlaceholder(query, "(none)") + "\n\n"
	if len(a.clients) == 0 {
		out += "No clients match.\n"
	}
	for i, c := range a.clients {
		marker := " "
		if i == a.clientCursor {
			marker = "▶"
		}
		kyc := " "
		if c.KYCVerified {
			kyc = "✓"
		}
		out += fmt.Sprintf("%s %-9s  %-22s  %-16s  KYC %s  [%s]\n", marker, c.ID, c.Name, c.Phone, kyc, c.RiskRating)
	}
	if a.histClient != nil {
		out += "\nHistory for " + a.histClient.Name + ":\n"
		if len(a.history) == 0 {
			out += "  (no transfers)\n"
		}
		recent := a.history
		if len(recent) > 5 {
			recent = recent[:5]
		}
		for _, t := range recent {
			out += "  " + a.transferLine(t) + "\n"
		}
	}
	out += "\n[/] Search  [enter] History  [n] New client  [esc] Back  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

// register

func (a *App) renderRegister() string {
	title := titleStyle.Render("Cash Register")
	out := title + "\n"
	if len(a.balances) > 0 {
		var parts []string
		for _, b := range a.balances {
			parts = append(parts, fmt.Sprintf("%s %s%s", b.Currency, money.Symbol(b.Currency), b.Balance.StringFixed(2)))
		}
		out += "Balances: " + strings.Join(parts, "  ") + "\n"
	}
	out += "Currency filter: " + filterLabel(a.regCurrency) + "\n\n"
	if len(a.movements) == 0 {
		out += "No movements.\n"
	}
	for i, m := range a.movements {
		marker := " "
		if i == a.regCursor {
			marker = "▶"
		}
		sign := "+"
		if m.Direction == repository.MovementOut {
			sign = "-"
		}
		out += fmt.Sprintf("%s %s  %s  %s%9s %s  balance %9s  %s\n", marker, m.ID,
			m.CreatedAt.In(a.tz).Format(a.dateFormat), sign, m.Amount.StringFixed(2),
			m.Currency, m.Balance.StringFixed(2), m.Reason)
	}
	out += "\n[f] Currency filter  [esc] Back  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

// reports

func (a *App) renderReports() string {
	title := titleStyle.Render("Reports")
	out := title + "\n"
	out += "Range: " + reportRanges[a.reportRangeIdx].label + "\n\n"
	if a.report == nil || len(a.report.Rows) == 0 {
		out += "No transfers in range.\n"
	} else {
		out += fmt.Sprintf("  %-12s %-4s %6s %12s %10s\n", "Kind", "Cur", "Count", "Amount", "Fees")
		for _, r := range a.report.Rows {
			out += fmt.Sprintf("  %-12s %-4s %6d %12s %10s\n",
				r.Kind, r.Currency, r.Count, r.Amount.StringFixed(2), r.Fees.StringFixed(2))
		}
		out += fmt.Sprintf("\n%d transfers in range\n", len(a.report.Transfers))
	}
	out += "\n[f] Date range  [e] Export CSV  [esc] Back  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

// settings

func (a *App) renderSettings() string {
	title := titleStyle.Render("Settings")
	out := title + "\n"
	for i, label := range settingLabels {
		marker := " "
		if i == a.settingsCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-18s %s\n", marker, label, a.settingValue(i))
	}
	out += "\n[enter] Edit  [x] Reset demo data  [esc] Back  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

// modals

func (a *App) renderModal() string {
	switch a.modal {
	case modalClientPicker:
		out := titleStyle.Render("Select Client") + "\n"
		out += "Search: " + a.pickQuery + "_\n"
		if len(a.clients) == 0 {
			out += "  (no matches)\n"
		}
		for i, c := range a.clients {
			marker := " "
			if i == a.pickCursor {
				marker = "▶"
			}
			out += fmt.Sprintf("%s %s\n", marker, clientLine(&c))
		}
		out += "[enter] Select  [esc] Cancel"
		return out
	case modalNewClient:
		out := titleStyle.Render("New Client") + "\n"
		for i, f := range clientFormFields {
			marker := " "
			if i == a.form.focus {
				marker = "▶"
			}
			value := a.form.values[i]
			if f.opts != nil {
				value = wizard.OptionLabel(f.opts, value)
			}
			out += fmt.Sprintf("%s %-14s %s\n", marker, f.label, value)
			if msg, ok := a.form.errors[f.key]; ok {
				out += "    ! " + msg + "\n"
			}
		}
		out += "[↑/↓] Field  [space] Cycle option  [enter] Save  [esc] Cancel"
		return out
	case modalInput:
		return titleStyle.Render(a.inputLabel) + fmt.Sprintf("\n%s_\n[enter] Save  [esc] Cancel", a.inputBuffer)
	case modalPayoutAction:
		if len(a.payouts) == 0 {
			return ""
		}
		p := a.payouts[a.poCursor]
		action := "Cancel"
		if a.poPay {
			action = "Pay out"
		}
		return titleStyle.Render(fmt.Sprintf("%s %s?", action, p.ID)) +
			fmt.Sprintf("\n%s %s to %s\n[y] Yes  [n] No", p.Amount.StringFixed(2), p.Currency, p.ReceiverName)
	case modalConfirmReset:
		return titleStyle.Render("Reset demo data?") + "\nAll transfers, payouts and drawer movements will be replaced with the demo set.\n[y] Yes  [n] No"
	default:
		return ""
	}
}
