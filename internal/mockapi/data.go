package mockapi

import (
	"fmt"
	"time"

	"github.com/finconnect/portal/internal/models"
)

// seedTransactions порождает детерминированную историю операций за последний
// месяц: суммы и счета вычисляются от номера записи, от старых к новым.
func seedTransactions() []models.Transaction {
	const count = 24
	now := time.Now()

	txs := make([]models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		status := models.TransactionCompleted
		switch {
		case i%9 == 7:
			status = models.TransactionPending
		case i%9 == 8:
			status = models.TransactionFailed
		}
		txs = append(txs, models.Transaction{
			ID:                   fmt.Sprintf("tx-seed-%03d", i+1),
			SourceAccountID:      fmt.Sprintf("acc-%03d", i%4+1),
			DestinationAccountID: fmt.Sprintf("acc-%03d", (i+2)%4+1),
			Amount:               float64(50+i*37) + 0.25,
			Description:          fmt.Sprintf("Payment #%d", i+1),
			Status:               status,
			CreatedAt:            now.AddDate(0, 0, -(count - i)),
		})
	}
	return txs
}

// seedUsers возвращает список пользователей для административной панели:
// две фиксированные тестовые учётки плюс несколько синтетических разработчиков.
func seedUsers() []models.User {
	now := time.Now()
	return []models.User{
		{
			ID:        "admin-123",
			Email:     "admin@example.com",
			Name:      "Admin User",
			Role:      models.RoleAdmin,
			CreatedAt: now.AddDate(0, -6, 0),
		},
		{
			ID:        "user-123",
			Email:     "user@example.com",
			Name:      "Demo User",
			Role:      models.RoleDeveloper,
			CreatedAt: now.AddDate(0, -3, 0),
		},
		{
			ID:        "user-456",
			Email:     "jane.doe@devshop.io",
			Name:      "Jane Doe",
			Role:      models.RoleDeveloper,
			CreatedAt: now.AddDate(0, -2, -11),
		},
		{
			ID:        "user-789",
			Email:     "marco@fintech.dev",
			Name:      "Marco Rossi",
			Role:      models.RoleDeveloper,
			CreatedAt: now.AddDate(0, -1, -4),
		},
		{
			ID:        "user-790",
			Email:     "sofia@apitools.app",
			Name:      "Sofia Almeida",
			Role:      models.RoleDeveloper,
			CreatedAt: now.AddDate(0, 0, -18),
		},
	}
}
