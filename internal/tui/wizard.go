package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/directory"
	"github.com/globalremit/teller/internal/money"
	"github.com/globalremit/teller/internal/wizard"
)

func (a *App) startWizard() {
	a.wiz = wizard.New()
	a.wiz.SetOperator(a.cfg.Teller.Operator)
	a.lastTransfer = nil
	a.detailsFocus = 0
	a.state = viewWizard
	a.status = ""
}

func (a *App) handleWizardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	}
	if a.wiz.Complete() {
		switch m.String() {
		case "n", "enter":
			a.startWizard()
		case "esc", "d":
			a.state = viewDashboard
		}
		return a, nil
	}
	if a.wiz.Submitting() {
		// the only escape hatch while the remote call runs
		if m.String() == "esc" && a.submitCancel != nil {
			a.submitCancel()
			a.status = "cancelling..."
		}
		return a, nil
	}
	switch m.String() {
	case "esc":
		a.state, a.status = viewDashboard, ""
		return a, nil
	case "left":
		if !a.wiz.Retreat() {
			a.state = viewDashboard
		}
		a.status = ""
		return a, nil
	case "right", "enter":
		return a.advanceWizard()
	case "1", "2", "3", "4", "5":
		s := wizard.Step(m.String()[0] - '1')
		if err := a.wiz.GoTo(s); err != nil {
			a.status = err.Error()
		} else {
			a.status = ""
		}
		return a, nil
	}
	return a.handleWizardStepKey(m)
}

func (a *App) advanceWizard() (tea.Model, tea.Cmd) {
	switch a.wiz.Advance() {
	case wizard.Blocked:
		a.status = "fix the highlighted fields"
	case wizard.Moved:
		a.status = ""
	case wizard.Submit:
		if !a.wiz.BeginSubmit() {
			a.status = "fix the highlighted fields"
			return a, nil
		}
		sctx, cancel := context.WithCancel(a.ctx)
		a.submitCancel = cancel
		a.status = "submitting..."
		return a, a.submitCmd(sctx, a.wiz.Draft())
	}
	return a, nil
}

func (a *App) handleWizardStepKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := m.String()
	switch a.wiz.ActiveStep() {
	case wizard.StepSender:
		switch key {
		case "c":
			return a, a.openClientPicker(pickSender)
		case "n":
			a.openNewClientForm(pickSender)
		}
	case wizard.StepReceiver:
		switch key {
		case "c":
			return a, a.openClientPicker(pickReceiver)
		case "n":
			a.openNewClientForm(pickReceiver)
		case "m":
			if err := a.wiz.UseSenderAsReceiver(); err != nil {
				a.status = err.Error()
			} else {
				a.status = "receiver set to sender"
			}
		}
	case wizard.StepDetails:
		switch key {
		case "up", "k":
			if a.detailsFocus > 0 {
				a.detailsFocus--
			}
		case "down", "j":
			if a.detailsFocus < 2 {
				a.detailsFocus++
			}
		case " ", "tab":
			a.cycleDetailsOption()
		case "e":
			a.openInput(inputOperator, "Operator name", a.wiz.Draft().Operator)
		}
	case wizard.StepAmount:
		switch key {
		case "a":
			a.openInput(inputAmount, "Amount to send", a.wiz.Draft().Amount)
		case "c":
			d := a.wiz.Draft()
			a.setWizardCurrencies(nextCurrency(d.SourceCurrency), d.TargetCurrency)
		case "v":
			d := a.wiz.Draft()
			a.setWizardCurrencies(d.SourceCurrency, nextCurrency(d.TargetCurrency))
		}
	case wizard.StepConfirm:
		if key == "a" {
			a.wiz.SetTerms(!a.wiz.Draft().TermsAccepted)
		}
	}
	return a, nil
}

func (a *App) cycleDetailsOption() {
	d := a.wiz.Draft()
	switch a.detailsFocus {
	case 0:
		a.wiz.SetSourceOfFunds(nextOption(wizard.SourceOfFundsOptions, d.SourceOfFunds))
	case 1:
		a.wiz.SetPurpose(nextOption(wizard.PurposeOptions, d.PurposeOfTransfer))
	case 2:
		a.wiz.SetTransferType(nextOption(wizard.TransferTypeOptions, d.TransferType))
	}
}

func nextOption(opts []wizard.Option, cur string) string {
	for i, o := range opts {
		if o.Value == cur {
			return opts[(i+1)%len(opts)].Value
		}
	}
	return opts[0].Value
}

func nextCurrency(cur string) string {
	codes := money.CurrencyCodes()
	for i, c := range codes {
		if c == cur {
			return codes[(i+1)%len(codes)]
		}
	}
	return codes[0]
}

func (a *App) setWizardCurrencies(src, dst string) {
	rate, err := a.board.Rate(src, dst)
	if err != nil {
		a.status = "error: " + err.Error()
		return
	}
	a.wiz.SetCurrencies(src, dst, rate)
}

// client picker modal

func (a *App) openClientPicker(target pickTarget) tea.Cmd {
	a.modal = modalClientPicker
	a.pickFor = target
	a.pickQuery = ""
	a.pickCursor = 0
	return a.loadClients("")
}

// generic single-line input modal

func (a *App) openInput(target inputTarget, label, initial string) {
	a.modal = modalInput
	a.inputFor = target
	a.inputLabel = label
	a.inputBuffer = initial
}

func (a *App) applyInput(text string) tea.Cmd {
	switch a.inputFor {
	case inputAmount:
		a.wiz.SetAmount(text)
	case inputOperator:
		a.wiz.SetOperator(text)
	case inputExchangeAmount:
		a.exAmount = text
		a.refreshExchangeQuote()
	case inputSetting:
		return a.applySetting(text)
	}
	return nil
}

// new-client form modal

type clientForm struct {
	values [9]string
	focus  int
	errors map[string]string
}

type clientFormField struct {
	key   string
	label string
	opts  []wizard.Option // nil means free text
}

var clientFormFields = [9]clientFormField{
	{key: "name", label: "Full name"},
	{key: "phone", label: "Phone"},
	{key: "email", label: "Email"},
	{key: "address", label: "Address"},
	{key: "country", label: "Country"},
	{key: "idType", label: "ID type", opts: wizard.IDTypeOptions},
	{key: "idNumber", label: "ID number"},
	{key: "bankAccount", label: "Bank account"},
	{key: "riskRating", label: "Risk rating", opts: wizard.RiskRatingOptions},
}

func (a *App) openNewClientForm(target pickTarget) {
	a.modal = modalNewClient
	a.pickFor = target
	a.form = clientForm{errors: map[string]string{}}
	a.form.values[5] = wizard.IDTypeOptions[0].Value
	a.form.values[8] = wizard.RiskRatingOptions[0].Value
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalClientPicker:
		return a.handlePickerKey(m)
	case modalNewClient:
		return a.handleFormKey(m)
	case modalInput:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.inputBuffer = ""
		case tea.KeyEnter:
			text := strings.TrimSpace(a.inputBuffer)
			a.modal = modalNone
			a.inputBuffer = ""
			return a, a.applyInput(text)
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(a.inputBuffer) > 0 {
				a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-1]
			}
		case tea.KeySpace:
			a.inputBuffer += " "
		case tea.KeyRunes:
			a.inputBuffer += string(m.Runes)
		}
	case modalPayoutAction:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			if len(a.payouts) == 0 {
				return a, nil
			}
			return a, a.payoutActionCmd(a.payouts[a.poCursor].ID, a.poPay)
		case "n", "N", "esc":
			a.modal = modalNone
		}
	case modalConfirmReset:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			return a, a.resetCmd()
		case "n", "N", "esc":
			a.modal = modalNone
		}
	}
	return a, nil
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		return a, a.loadClients(a.clientQuery)
	case tea.KeyUp:
		if a.pickCursor > 0 {
			a.pickCursor--
		}
	case tea.KeyDown:
		if a.pickCursor < len(a.clients)-1 {
			a.pickCursor++
		}
	case tea.KeyEnter:
		if len(a.clients) == 0 {
			return a, nil
		}
		c := a.clients[a.pickCursor]
		a.assignClient(&c)
		a.modal = modalNone
		return a, a.loadClients(a.clientQuery)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.pickQuery) > 0 {
			a.pickQuery = a.pickQuery[:len(a.pickQuery)-1]
		}
		return a, a.loadClients(a.pickQuery)
	case tea.KeySpace:
		a.pickQuery += " "
		return a, a.loadClients(a.pickQuery)
	case tea.KeyRunes:
		a.pickQuery += string(m.Runes)
		a.pickCursor = 0
		return a, a.loadClients(a.pickQuery)
	}
	return a, nil
}

func (a *App) assignClient(c *repository.Client) {
	switch a.pickFor {
	case pickSender:
		a.wiz.SetSender(c)
		a.status = "sender: " + c.Name
	case pickReceiver:
		a.wiz.SetReceiver(c)
		a.status = "receiver: " + c.Name
	case pickExchange:
		a.exClient = c
		a.status = "client: " + c.Name
	}
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := clientFormFields[a.form.focus]
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		return a, nil
	case tea.KeyUp:
		if a.form.focus > 0 {
			a.form.focus--
		}
	case tea.KeyDown:
		if a.form.focus < len(clientFormFields)-1 {
			a.form.focus++
		}
	case tea.KeyTab:
		a.form.focus = (a.form.focus + 1) % len(clientFormFields)
	case tea.KeyEnter:
		return a, a.createClientCmd(a.form)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if field.opts == nil && len(a.form.values[a.form.focus]) > 0 {
			v := a.form.values[a.form.focus]
			a.form.values[a.form.focus] = v[:len(v)-1]
		}
	case tea.KeySpace:
		if field.opts != nil {
			a.form.values[a.form.focus] = nextOption(field.opts, a.form.values[a.form.focus])
		} else {
			a.form.values[a.form.focus] += " "
		}
	case tea.KeyRunes:
		if field.opts == nil {
			a.form.values[a.form.focus] += string(m.Runes)
			delete(a.form.errors, field.key)
		}
	}
	return a, nil
}

func (a *App) createClientCmd(f clientForm) tea.Cmd {
	return func() tea.Msg {
		c := repository.Client{
			Name:        strings.TrimSpace(f.values[0]),
			Phone:       strings.TrimSpace(f.values[1]),
			Email:       strings.TrimSpace(f.values[2]),
			Address:     strings.TrimSpace(f.values[3]),
			Country:     strings.TrimSpace(f.values[4]),
			IDType:      f.values[5],
			IDNumber:    strings.TrimSpace(f.values[6]),
			BankAccount: strings.TrimSpace(f.values[7]),
			RiskRating:  f.values[8],
		}
		created, err := a.services.Directory.Create(a.ctx, c)
		if err != nil {
			var verr *directory.ValidationError
			if errors.As(err, &verr) {
				return clientFormErrsMsg(verr.Fields)
			}
			return errMsg{err}
		}
		return clientSavedMsg{client: created}
	}
}

func (a *App) acceptNewClient(c *repository.Client) (tea.Model, tea.Cmd) {
	a.modal = modalNone
	a.assignClient(c)
	a.status = fmt.Sprintf("client %s added", c.Name)
	return a, a.loadClients(a.clientQuery)
}
