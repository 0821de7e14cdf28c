package ledger

// DefaultMappings is the seed rule set for a fresh database, in
// declaration order.
var DefaultMappings = []MappingRule{
	// Revenue
	{GroupLabel: "Google Revenue", CostCenter: "Google Play Net Revenue", Counterparty: "GOOGLE BRASIL PAGAMENTOS LTDA", TargetLine: LineGoogleRevenue, Kind: KindRevenue, Active: true, Note: "Google Play revenue"},
	{GroupLabel: "Apple Revenue", CostCenter: "App Store Net Revenue", Counterparty: "App Store (Apple)", TargetLine: LineAppleRevenue, Kind: KindRevenue, Active: true, Note: "App Store revenue"},

	// COGS
	{GroupLabel: "COGS", CostCenter: "Web Services Expenses", Counterparty: "AWS", TargetLine: LineCOGSAWS, Kind: KindCost, Active: true, Note: "Amazon Web Services"},
	{GroupLabel: "COGS", CostCenter: "Web Services Expenses", Counterparty: "Cloudflare", TargetLine: LineCOGSCloudflare, Kind: KindCost, Active: true, Note: "Cloudflare"},
	{GroupLabel: "COGS", CostCenter: "Web Services Expenses", Counterparty: "Heroku", TargetLine: LineCOGSHeroku, Kind: KindCost, Active: true, Note: "Heroku"},
	{GroupLabel: "COGS", CostCenter: "Web Services Expenses", Counterparty: "IAPHUB", TargetLine: LineCOGSIAPHub, Kind: KindCost, Active: true, Note: "IAPHUB"},
	{GroupLabel: "COGS", CostCenter: "Web Services Expenses", Counterparty: "MailGun", TargetLine: LineCOGSMailGun, Kind: KindCost, Active: true, Note: "MailGun"},
	// "AWS" above routes "AWS SES" counterparties in the statement; line 48's
	// drill-down still lists them.
	{GroupLabel: "COGS", CostCenter: "Web Services Expenses", Counterparty: "AWS SES", TargetLine: LineCOGSAWSSES, Kind: KindCost, Active: true, Note: "AWS SES"},

	// SG&A
	{GroupLabel: "SG&A", CostCenter: "Marketing & Growth Expenses", Counterparty: "MGA MARKETING LTDA", TargetLine: LineMarketing, Kind: KindExpense, Active: true, Note: "Marketing"},
	{GroupLabel: "SG&A", CostCenter: "Marketing & Growth Expenses", Counterparty: GenericCounterparty, TargetLine: LineMarketing, Kind: KindExpense, Active: true, Note: "Marketing - misc"},
	{GroupLabel: "SG&A", CostCenter: "Wages Expenses", Counterparty: GenericCounterparty, TargetLine: LineWages, Kind: KindExpense, Active: true, Note: "Salaries and owner compensation"},
	{GroupLabel: "SG&A", CostCenter: "Tech Support & Services", Counterparty: "Adobe", TargetLine: LineTechSubscribed, Kind: KindExpense, Active: true, Note: "Adobe Creative Cloud"},
	{GroupLabel: "SG&A", CostCenter: "Tech Support & Services", Counterparty: "Canva", TargetLine: LineTechSubscribed, Kind: KindExpense, Active: true, Note: "Canva"},
	{GroupLabel: "SG&A", CostCenter: "Tech Support & Services", Counterparty: "ClickSign", TargetLine: LineTechSubscribed, Kind: KindExpense, Active: true, Note: "ClickSign"},
	{GroupLabel: "SG&A", CostCenter: "Tech Support & Services", Counterparty: "COMPANYHERO SAO PAULO BRA", TargetLine: LineTechSubscribed, Kind: KindExpense, Active: true, Note: "CompanyHero"},
	{GroupLabel: "SG&A", CostCenter: "Tech Support & Services", Counterparty: GenericCounterparty, TargetLine: LineTechMisc, Kind: KindExpense, Active: true, Note: "Tech support - misc"},

	// Other expenses
	{GroupLabel: "Other Expenses", CostCenter: "Legal & Accounting Expenses", Counterparty: "BHUB.AI", TargetLine: LineOtherExpenses, Kind: KindExpense, Active: true, Note: "Outsourced bookkeeping"},
	{GroupLabel: "Other Expenses", CostCenter: "Legal & Accounting Expenses", Counterparty: "WOLFF E SCRIPES ADVOGADOS", TargetLine: LineOtherExpenses, Kind: KindExpense, Active: true, Note: "Legal fees"},
	{GroupLabel: "Other Expenses", CostCenter: "Office Expenses", Counterparty: "GO OFFICES LATAM S/A", TargetLine: LineOtherExpenses, Kind: KindExpense, Active: true, Note: "Rent"},
	{GroupLabel: "Other Expenses", CostCenter: "Office Expenses", Counterparty: "CO-SERVICES DO BRASIL  SERVICOS COMBINADOS DE APOIO A EDIFICIOS LTDA", TargetLine: LineOtherExpenses, Kind: KindExpense, Active: true, Note: "Office services"},
	{GroupLabel: "Other Expenses", CostCenter: "Travel", Counterparty: "American Airlines", TargetLine: LineOtherExpenses, Kind: KindExpense, Active: true, Note: "Travel"},
	{GroupLabel: "Other Expenses", CostCenter: "Other Taxes", Counterparty: "IMPOSTOS/TRIBUTOS", TargetLine: LineOtherExpenses, Kind: KindExpense, Active: true, Note: "Taxes and levies"},
	{GroupLabel: "Other Expenses", CostCenter: "Payroll Tax - Brazil", Counterparty: "IMPOSTOS/TRIBUTOS", TargetLine: LineOtherExpenses, Kind: KindExpense, Active: true, Note: "Payroll taxes"},

	// Investment income
	{GroupLabel: "Investment Income", CostCenter: "Rendimentos de Aplicações", Counterparty: "CONTA SIMPLES", TargetLine: LineInvestIncome, Kind: KindRevenue, Active: true, Note: "CDI yield - Conta Simples"},
	{GroupLabel: "Investment Income", CostCenter: "Rendimentos de Aplicações", Counterparty: "BANCO INTER", TargetLine: LineInvestIncome, Kind: KindRevenue, Active: true, Note: "Yield - Banco Inter"},
}

// DefaultRules returns a copy of DefaultMappings safe to mutate.
func DefaultRules() []MappingRule {
	out := make([]MappingRule, len(DefaultMappings))
	copy(out, DefaultMappings)
	return out
}
