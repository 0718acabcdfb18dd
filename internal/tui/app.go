// Package tui is the teller terminal: one Bubble Tea model covering the
// dashboard, the send-money wizard and the listing screens.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/globalremit/teller/internal/config"
	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/directory"
	"github.com/globalremit/teller/internal/money"
	"github.com/globalremit/teller/internal/rates"
	"github.com/globalremit/teller/internal/service"
	"github.com/globalremit/teller/internal/wizard"
)

// App ties together views.
type App struct {
	ctx      context.Context
	cfg      config.Config
	repos    Repos
	services Services
	board    *rates.Board
	state    appState
	modal    modalState
	status   string
	tz       *time.Location

	dateFormat string

	// wizard
	wiz          *wizard.Controller
	detailsFocus int
	submitCancel context.CancelFunc
	lastTransfer *repository.Transfer

	// client picker modal
	clients    []repository.Client
	pickFor    pickTarget
	pickCursor int
	pickQuery  string

	// new-client form modal
	form clientForm

	// generic input modal
	inputFor    inputTarget
	inputLabel  string
	inputBuffer string

	// transactions
	transfers   []repository.Transfer
	txCursor    int
	txKind      string
	txStatus    string
	txSearch    string
	txSearching bool

	// payouts
	payouts   []repository.Payout
	poCursor  int
	poShowAll bool
	poPay     bool // pending modal action: pay or cancel

	// clients view
	clientCursor    int
	clientQuery     string
	clientSearching bool
	histClient      *repository.Client
	history         []repository.Transfer

	// cash register
	movements   []repository.RegisterMovement
	regCursor   int
	regCurrency string
	balances    []balanceRow

	// exchange
	exClient *repository.Client
	exAmount string
	exSrcIdx int
	exDstIdx int
	exQuote  *money.Quote

	// reports
	report         *service.Report
	reportRangeIdx int

	// settings
	settingsCursor int
}

type Repos struct {
	Clients   *repository.ClientRepo
	Transfers *repository.TransferRepo
	Payouts   *repository.PayoutRepo
	Register  *repository.RegisterRepo
}

type Services struct {
	Transfers   *service.TransferService
	Payouts     *service.PayoutService
	Exchange    *service.ExchangeService
	Reports     *service.ReportService
	Directory   *directory.Service
	Maintenance *service.MaintenanceService
}

type appState string

const (
	viewDashboard    appState = "dashboard"
	viewWizard       appState = "wizard"
	viewExchange     appState = "exchange"
	viewTransactions appState = "transactions"
	viewPayouts      appState = "payouts"
	viewClients      appState = "clients"
	viewRegister     appState = "register"
	viewReports      appState = "reports"
	viewSettings     appState = "settings"
)

type modalState string

const (
	modalNone         modalState = ""
	modalClientPicker modalState = "clientPicker"
	modalNewClient    modalState = "newClient"
	modalInput        modalState = "input"
	modalPayoutAction modalState = "payoutAction"
	modalConfirmReset modalState = "confirmReset"
)

// pickTarget says where a picked or newly created client lands.
type pickTarget string

const (
	pickSender   pickTarget = "sender"
	pickReceiver pickTarget = "receiver"
	pickExchange pickTarget = "exchange"
	pickBook     pickTarget = "book"
)

// inputTarget says which field the generic input modal is editing.
type inputTarget string

const (
	inputAmount         inputTarget = "amount"
	inputOperator       inputTarget = "operator"
	inputExchangeAmount inputTarget = "exchangeAmount"
	inputSetting        inputTarget = "setting"
)

func New(ctx context.Context, cfg config.Config, repos Repos, services Services, board *rates.Board, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	dstIdx := 0
	for i, c := range money.Currencies {
		if c.Code == "ILS" {
			dstIdx = i
		}
	}
	return &App{
		ctx:        ctx,
		cfg:        cfg,
		repos:      repos,
		services:   services,
		board:      board,
		tz:         tz,
		dateFormat: cfg.UI.DateFormat,
		exDstIdx:   dstIdx,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadClients(""), a.loadTransfers(), a.loadPayouts(), a.loadMovements(), a.loadBalances())
}

// loaders

func (a *App) loadClients(query string) tea.Cmd {
	return func() tea.Msg {
		list, err := a.services.Directory.Search(a.ctx, query)
		if err != nil {
			return errMsg{err}
		}
		return clientsMsg(list)
	}
}

func (a *App) loadTransfers() tea.Cmd {
	f := repository.TransferFilters{
		Kind:   a.txKind,
		Status: a.txStatus,
		Search: strings.TrimSpace(a.txSearch),
	}
	return func() tea.Msg {
		list, err := a.repos.Transfers.List(a.ctx, f)
		if err != nil {
			return errMsg{err}
		}
		return transfersMsg(list)
	}
}

func (a *App) loadPayouts() tea.Cmd {
	showAll := a.poShowAll
	return func() tea.Msg {
		var (
			list []repository.Payout
			err  error
		)
		if showAll {
			list, err = a.services.Payouts.All(a.ctx)
		} else {
			list, err = a.services.Payouts.Open(a.ctx)
		}
		if err != nil {
			return errMsg{err}
		}
		return payoutsMsg(list)
	}
}

func (a *App) loadMovements() tea.Cmd {
	currency := a.regCurrency
	return func() tea.Msg {
		list, err := a.repos.Register.List(a.ctx, currency)
		if err != nil {
			return errMsg{err}
		}
		return movementsMsg(list)
	}
}

func (a *App) loadBalances() tea.Cmd {
	return func() tea.Msg {
		out := make([]balanceRow, 0, len(money.Currencies))
		for _, c := range money.Currencies {
			b, err := a.repos.Register.Balance(a.ctx, c.Code)
			if err != nil {
				return errMsg{err}
			}
			if b.IsZero() {
				continue
			}
			out = append(out, balanceRow{Currency: c.Code, Balance: b})
		}
		return balancesMsg(out)
	}
}

func (a *App) loadHistory(c repository.Client) tea.Cmd {
	return func() tea.Msg {
		list, err := a.repos.Transfers.List(a.ctx, repository.TransferFilters{Search: c.Name})
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(list)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch a.state {
		case viewWizard:
			return a.handleWizardKey(m)
		case viewExchange:
			return a.handleExchangeKey(m)
		case viewTransactions:
			return a.handleTransactionsKey(m)
		case viewPayouts:
			return a.handlePayoutsKey(m)
		case viewClients:
			return a.handleClientsKey(m)
		case viewRegister:
			return a.handleRegisterKey(m)
		case viewReports:
			return a.handleReportsKey(m)
		case viewSettings:
			return a.handleSettingsKey(m)
		default:
			if cmd, ok := a.handleNavKey(m.String()); ok {
				return a, cmd
			}
		}
	case clientsMsg:
		a.clients = []repository.Client(m)
		if a.pickCursor >= len(a.clients) {
			a.pickCursor = 0
		}
		if a.clientCursor >= len(a.clients) {
			a.clientCursor = 0
		}
	case transfersMsg:
		a.transfers = []repository.Transfer(m)
		if a.txCursor >= len(a.transfers) {
			a.txCursor = 0
		}
	case payoutsMsg:
		a.payouts = []repository.Payout(m)
		if a.poCursor >= len(a.payouts) {
			a.poCursor = 0
		}
	case movementsMsg:
		a.movements = []repository.RegisterMovement(m)
		if a.regCursor >= len(a.movements) {
			a.regCursor = 0
		}
	case balancesMsg:
		a.balances = []balanceRow(m)
	case historyMsg:
		a.history = []repository.Transfer(m)
	case reportMsg:
		a.report = m.report
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	case submitDoneMsg:
		return a.finishSubmit(m)
	case exchangeDoneMsg:
		if m.err != nil {
			a.status = "error: " + m.err.Error()
			return a, nil
		}
		a.status = fmt.Sprintf("exchange %s recorded", m.transfer.ID)
		a.exAmount = ""
		a.exQuote = nil
		return a, tea.Batch(a.loadTransfers(), a.loadBalances())
	case ratesRefreshedMsg:
		a.status = "rates updated"
		a.refreshExchangeQuote()
	case clientSavedMsg:
		return a.acceptNewClient(m.client)
	case clientFormErrsMsg:
		a.form.errors = map[string]string(m)
		a.status = "fix the highlighted fields"
	}
	return a, nil
}

func (a *App) finishSubmit(m submitDoneMsg) (tea.Model, tea.Cmd) {
	if a.submitCancel != nil {
		a.submitCancel()
		a.submitCancel = nil
	}
	a.wiz.FinishSubmit(m.err)
	if m.err != nil {
		if errors.Is(m.err, context.Canceled) {
			a.status = "submission cancelled, draft kept"
		} else {
			a.status = "error: " + m.err.Error()
		}
		return a, nil
	}
	a.lastTransfer = m.transfer
	a.status = fmt.Sprintf("transfer %s recorded", m.transfer.ID)
	return a, tea.Batch(a.loadTransfers(), a.loadPayouts(), a.loadMovements(), a.loadBalances())
}

// handleNavKey covers the view-switching keys shared by every screen.
func (a *App) handleNavKey(key string) (tea.Cmd, bool) {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit, true
	case "d":
		a.state, a.status = viewDashboard, ""
		return nil, true
	case "s":
		a.startWizard()
		return nil, true
	case "x":
		a.state, a.status = viewExchange, ""
		a.refreshExchangeQuote()
		return nil, true
	case "t":
		a.state, a.status = viewTransactions, ""
		return a.loadTransfers(), true
	case "o":
		a.state, a.status = viewPayouts, ""
		return a.loadPayouts(), true
	case "c":
		a.state, a.status = viewClients, ""
		return a.loadClients(a.clientQuery), true
	case "g":
		a.state, a.status = viewRegister, ""
		return tea.Batch(a.loadMovements(), a.loadBalances()), true
	case "r":
		a.state, a.status = viewReports, ""
		return a.loadReport(), true
	case "p":
		a.state, a.status = viewSettings, ""
		return nil, true
	}
	return nil, false
}

// reportRanges are the date windows the reports screen cycles through.
// Zero days means all time.
var reportRanges = []struct {
	label string
	days  int
}{
	{"Last 7 days", 7},
	{"Last 30 days", 30},
	{"Last 90 days", 90},
	{"All time", 0},
}

func (a *App) loadReport() tea.Cmd {
	var since time.Time
	if days := reportRanges[a.reportRangeIdx].days; days > 0 {
		since = time.Now().UTC().AddDate(0, 0, -days)
	}
	return func() tea.Msg {
		rep, err := a.services.Reports.Build(a.ctx, since)
		if err != nil {
			return errMsg{err}
		}
		return reportMsg{rep}
	}
}

func (a *App) handleReportsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.state, a.status = viewDashboard, ""
		return a, nil
	case "f":
		a.reportRangeIdx = (a.reportRangeIdx + 1) % len(reportRanges)
		return a, a.loadReport()
	case "e":
		return a, a.exportReportCmd()
	}
	if cmd, ok := a.handleNavKey(m.String()); ok {
		return a, cmd
	}
	return a, nil
}

func (a *App) exportReportCmd() tea.Cmd {
	rep := a.report
	if rep == nil {
		return nil
	}
	dir := filepath.Dir(a.cfg.Analytics.Path)
	path := filepath.Join(dir, "report-"+time.Now().Format("20060102-150405")+".csv")
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errMsg{err}
		}
		f, err := os.Create(path)
		if err != nil {
			return errMsg{err}
		}
		defer f.Close()
		if err := rep.WriteCSV(f); err != nil {
			return errMsg{err}
		}
		return statusMsg("report written to " + path)
	}
}

func (a *App) handleExchangeKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.state, a.status = viewDashboard, ""
		return a, nil
	case "c":
		return a, a.openClientPicker(pickExchange)
	case "a":
		a.openInput(inputExchangeAmount, "Exchange amount", a.exAmount)
		return a, nil
	case "f":
		a.exSrcIdx = (a.exSrcIdx + 1) % len(money.Currencies)
		a.refreshExchangeQuote()
		return a, nil
	case "y":
		a.exDstIdx = (a.exDstIdx + 1) % len(money.Currencies)
		a.refreshExchangeQuote()
		return a, nil
	case "r":
		a.status = "refreshing rates..."
		return a, a.refreshRatesCmd()
	case "enter":
		if a.exClient == nil {
			a.status = "select a client first"
			return a, nil
		}
		if strings.TrimSpace(a.exAmount) == "" {
			a.status = "enter an amount"
			return a, nil
		}
		a.status = "recording..."
		return a, a.recordExchangeCmd()
	}
	if cmd, ok := a.handleNavKey(m.String()); ok {
		return a, cmd
	}
	return a, nil
}

func (a *App) handleTransactionsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.txSearching {
		switch m.Type {
		case tea.KeyEsc:
			a.txSearching = false
			a.txSearch = ""
			return a, a.loadTransfers()
		case tea.KeyEnter:
			a.txSearching = false
			return a, a.loadTransfers()
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(a.txSearch) > 0 {
				a.txSearch = a.txSearch[:len(a.txSearch)-1]
			}
		case tea.KeySpace:
			a.txSearch += " "
		case tea.KeyRunes:
			a.txSearch += string(m.Runes)
		}
		return a, nil
	}
	switch m.String() {
	case "esc":
		a.state, a.status = viewDashboard, ""
		return a, nil
	case "up", "k":
		if a.txCursor > 0 {
			a.txCursor--
		}
		return a, nil
	case "down", "j":
		if a.txCursor < len(a.transfers)-1 {
			a.txCursor++
		}
		return a, nil
	case "f":
		a.txKind = cycleFilter(a.txKind, kindFilters)
		return a, a.loadTransfers()
	case "u":
		a.txStatus = cycleFilter(a.txStatus, statusFilters)
		return a, a.loadTransfers()
	case "/":
		a.txSearching = true
		a.txSearch = ""
		return a, nil
	}
	if cmd, ok := a.handleNavKey(m.String()); ok {
		return a, cmd
	}
	return a, nil
}

func (a *App) handlePayoutsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.state, a.status = viewDashboard, ""
		return a, nil
	case "up", "k":
		if a.poCursor > 0 {
			a.poCursor--
		}
		return a, nil
	case "down", "j":
		if a.poCursor < len(a.payouts)-1 {
			a.poCursor++
		}
		return a, nil
	case "v":
		a.poShowAll = !a.poShowAll
		a.poCursor = 0
		return a, a.loadPayouts()
	case "y":
		if len(a.payouts) > 0 {
			a.modal = modalPayoutAction
			a.poPay = true
		}
		return a, nil
	case "n":
		if len(a.payouts) > 0 {
			a.modal = modalPayoutAction
			a.poPay = false
		}
		return a, nil
	}
	if cmd, ok := a.handleNavKey(m.String()); ok {
		return a, cmd
	}
	return a, nil
}

func (a *App) handleClientsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.clientSearching {
		switch m.Type {
		case tea.KeyEsc:
			a.clientSearching = false
			a.clientQuery = ""
			return a, a.loadClients("")
		case tea.KeyEnter:
			a.clientSearching = false
			return a, nil
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(a.clientQuery) > 0 {
				a.clientQuery = a.clientQuery[:len(a.clientQuery)-1]
			}
			return a, a.loadClients(a.clientQuery)
		case tea.KeySpace:
			a.clientQuery += " "
			return a, a.loadClients(a.clientQuery)
		case tea.KeyRunes:
			a.clientQuery += string(m.Runes)
			return a, a.loadClients(a.clientQuery)
		}
		return a, nil
	}
	switch m.String() {
	case "esc":
		a.state, a.status = viewDashboard, ""
		return a, nil
	case "up", "k":
		if a.clientCursor > 0 {
			a.clientCursor--
		}
		return a, nil
	case "down", "j":
		if a.clientCursor < len(a.clients)-1 {
			a.clientCursor++
		}
		return a, nil
	case "/":
		a.clientSearching = true
		a.clientQuery = ""
		return a, nil
	case "n":
		a.openNewClientForm(pickBook)
		return a, nil
	case "enter":
		if len(a.clients) == 0 {
			return a, nil
		}
		c := a.clients[a.clientCursor]
		a.histClient = &c
		return a, a.loadHistory(c)
	}
	if cmd, ok := a.handleNavKey(m.String()); ok {
		return a, cmd
	}
	return a, nil
}

func (a *App) handleRegisterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.state, a.status = viewDashboard, ""
		return a, nil
	case "up", "k":
		if a.regCursor > 0 {
			a.regCursor--
		}
		return a, nil
	case "down", "j":
		if a.regCursor < len(a.movements)-1 {
			a.regCursor++
		}
		return a, nil
	case "f":
		a.regCurrency = cycleFilter(a.regCurrency, currencyFilters())
		a.regCursor = 0
		return a, a.loadMovements()
	}
	if cmd, ok := a.handleNavKey(m.String()); ok {
		return a, cmd
	}
	return a, nil
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "d":
		a.state, a.status = viewDashboard, ""
		return a, nil
	case "up", "k":
		if a.settingsCursor > 0 {
			a.settingsCursor--
		}
		return a, nil
	case "down", "j":
		if a.settingsCursor < len(settingLabels)-1 {
			a.settingsCursor++
		}
		return a, nil
	case "enter":
		a.openInput(inputSetting, settingLabels[a.settingsCursor], a.settingValue(a.settingsCursor))
		return a, nil
	case "x":
		a.modal = modalConfirmReset
		return a, nil
	}
	if cmd, ok := a.handleNavKey(m.String()); ok {
		return a, cmd
	}
	return a, nil
}

var settingLabels = []string{"Operator name", "Currency symbol", "Date format", "Submit delay (ms)"}

func (a *App) settingValue(i int) string {
	switch i {
	case 0:
		return a.cfg.Teller.Operator
	case 1:
		return a.cfg.UI.CurrencySymbol
	case 2:
		return a.cfg.UI.DateFormat
	case 3:
		return strconv.Itoa(a.cfg.Transfer.SubmitDelayMS)
	}
	return ""
}

func (a *App) applySetting(text string) tea.Cmd {
	switch a.settingsCursor {
	case 0:
		a.cfg.Teller.Operator = text
	case 1:
		a.cfg.UI.CurrencySymbol = text
	case 2:
		a.cfg.UI.DateFormat = text
		a.dateFormat = text
	case 3:
		n, err := strconv.Atoi(text)
		if err != nil || n < 0 {
			a.status = "enter a delay in milliseconds"
			return nil
		}
		a.cfg.Transfer.SubmitDelayMS = n
		a.services.Transfers.Delay = time.Duration(n) * time.Millisecond
	}
	return a.saveConfigCmd()
}

func (a *App) saveConfigCmd() tea.Cmd {
	cfg := a.cfg
	return func() tea.Msg {
		if err := config.Save(cfg); err != nil {
			return errMsg{err}
		}
		return statusMsg("settings saved")
	}
}

// commands

func (a *App) resetCmd() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if a.services.Maintenance == nil {
				return errMsg{fmt.Errorf("maintenance not configured")}
			}
			if err := a.services.Maintenance.Reset(a.ctx); err != nil {
				return errMsg{err}
			}
			return statusMsg("demo data reset")
		},
		a.loadClients(""),
		a.loadTransfers(),
		a.loadPayouts(),
		a.loadMovements(),
		a.loadBalances(),
	)
}

func (a *App) submitCmd(ctx context.Context, d wizard.Draft) tea.Cmd {
	return func() tea.Msg {
		t, err := a.services.Transfers.Submit(ctx, d)
		return submitDoneMsg{transfer: t, err: err}
	}
}

func (a *App) recordExchangeCmd() tea.Cmd {
	client, amount := a.exClient, a.exAmount
	src, dst := a.exSrc(), a.exDst()
	return func() tea.Msg {
		t, err := a.services.Exchange.Record(a.ctx, client, amount, src, dst, a.cfg.Teller.Operator)
		return exchangeDoneMsg{transfer: t, err: err}
	}
}

func (a *App) refreshRatesCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.board.Refresh(a.ctx); err != nil {
			return errMsg{err}
		}
		return ratesRefreshedMsg{}
	}
}

func (a *App) payoutActionCmd(id string, pay bool) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			var err error
			if pay {
				err = a.services.Payouts.MarkPaid(a.ctx, id)
			} else {
				err = a.services.Payouts.Cancel(a.ctx, id)
			}
			if err != nil {
				return errMsg{err}
			}
			if pay {
				return statusMsg("payout paid")
			}
			return statusMsg("payout cancelled")
		},
		a.loadPayouts(),
		a.loadMovements(),
		a.loadBalances(),
	)
}

// exchange helpers

func (a *App) exSrc() string { return money.Currencies[a.exSrcIdx].Code }
func (a *App) exDst() string { return money.Currencies[a.exDstIdx].Code }

func (a *App) refreshExchangeQuote() {
	a.exQuote = nil
	if strings.TrimSpace(a.exAmount) == "" {
		return
	}
	q, err := a.services.Exchange.Quote(a.exAmount, a.exSrc(), a.exDst())
	if err != nil {
		a.status = "error: " + err.Error()
		return
	}
	a.exQuote = &q
}

// filter cycles

var kindFilters = []string{"", repository.KindRemittance, repository.KindExchange, repository.KindDeposit, repository.KindWithdrawal}

var statusFilters = []string{"", repository.TransferCompleted, repository.TransferPending, repository.TransferFailed}

func currencyFilters() []string {
	return append([]string{""}, money.CurrencyCodes()...)
}

func cycleFilter(cur string, opts []string) string {
	for i, o := range opts {
		if o == cur {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}

func filterLabel(v string) string {
	if v == "" {
		return "All"
	}
	return v
}

// messages

type clientsMsg []repository.Client

type transfersMsg []repository.Transfer

type payoutsMsg []repository.Payout

type movementsMsg []repository.RegisterMovement

type historyMsg []repository.Transfer

type reportMsg struct{ report *service.Report }

type balancesMsg []balanceRow

type statusMsg string

type errMsg struct{ error }

type submitDoneMsg struct {
	transfer *repository.Transfer
	err      error
}

type exchangeDoneMsg struct {
	transfer *repository.Transfer
	err      error
}

type ratesRefreshedMsg struct{}

type clientSavedMsg struct{ client *repository.Client }

type clientFormErrsMsg map[string]string

// balanceRow is one drawer balance line.
type balanceRow struct {
	Currency string
	Balance  decimal.Decimal
}
