package bus

type Bus struct {
	app       App
	accounts  Accounts
	snapshots Snapshots
	checker   Checker
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SetApp(app App) {
	b.app = app
}

func (b *Bus) App() App {
	return b.app
}

func (b *Bus) SetAccounts(accounts Accounts) {
	b.accounts = accounts
}

func (b *Bus) Accounts() Accounts {
	return b.accounts
}

func (b *Bus) SetSnapshots(snapshots Snapshots) {
	b.snapshots = snapshots
}

func (b *Bus) Snapshots() Snapshots {
	return b.snapshots
}

func (b *Bus) SetChecker(checker Checker) {
	b.checker = checker
}

func (b *Bus) Checker() Checker {
	return b.checker
}
