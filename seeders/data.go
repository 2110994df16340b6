package seeders

var categoriesData = []struct {
	Name        string
	Description string
}{
	{Name: "Network", Description: "Сеть, VPN, Wi-Fi, доступ в интернет"},
	{Name: "Email", Description: "Почта, календари, рассылки"},
	{Name: "Software", Description: "Установка и сбои программ"},
	{Name: "Hardware", Description: "Компьютеры, принтеры, периферия"},
	{Name: "Security", Description: "Доступы, пароли, инциденты"},
	{Name: "Other", Description: "Всё остальное"},
}

// Демонстрационные клиенты; salary - месячная сумма договора.
var demoCompaniesData = []struct {
	Name         string
	ContactEmail string
	ContactPhone string
	Address      string
	Salary       float64
}{
	{Name: "Acme Corp", ContactEmail: "it@acme.example", ContactPhone: "+1 555 0100", Address: "1 Main St", Salary: 2500},
	{Name: "Globex", ContactEmail: "ops@globex.example", ContactPhone: "+1 555 0101", Address: "42 Elm St", Salary: 1800},
	{Name: "Initech", ContactEmail: "help@initech.example", ContactPhone: "+1 555 0102", Address: "7 Office Park", Salary: 1200},
}
