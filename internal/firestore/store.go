// Package firestore implements the persistence ports on Cloud Firestore.
// Documents are keyed by entity ID and filtered with a userId equality so no
// composite indexes are required; ordering is applied in Go.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"plenio/internal/core"
	"plenio/internal/store"
)

const (
	colUsers          = "users"
	colPaymentMethods = "paymentMethods"
	colCategories     = "categories"
	colTransactions   = "transactions"
	colBudgets        = "budgets"
)

type Store struct {
	client *firestore.Client
}

var _ store.Store = (*Store)(nil)

// New initializes the Firebase app and opens a Firestore client.
// credentialsFile may be empty to use application default credentials.
func New(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	conf := &firebase.Config{ProjectID: projectID}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize Firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create Firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) UpsertProfile(ctx context.Context, p core.UserProfile) error {
	_, err := s.client.Collection(colUsers).Doc(p.UID).Set(ctx, p)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, uid string) (core.UserProfile, error) {
	doc, err := s.client.Collection(colUsers).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return core.UserProfile{}, store.ErrNotFound
	}
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	var p core.UserProfile
	if err := doc.DataTo(&p); err != nil {
		return core.UserProfile{}, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

func (s *Store) CreatePaymentMethod(ctx context.Context, m core.PaymentMethod) error {
	if err := m.Validate(); err != nil {
		return err
	}
	_, err := s.client.Collection(colPaymentMethods).Doc(m.ID).Set(ctx, m)
	if err != nil {
		return fmt.Errorf("create payment method: %w", err)
	}
	return nil
}

func (s *Store) ListPaymentMethods(ctx context.Context, userID string) ([]core.PaymentMethod, error) {
	iter := s.client.Collection(colPaymentMethods).
		Where("userId", "==", userID).
		Documents(ctx)

	var out []core.PaymentMethod
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate payment methods for user %s: %w", userID, err)
		}
		var m core.PaymentMethod
		if err := doc.DataTo(&m); err != nil {
			return nil, fmt.Errorf("parse payment method: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) GetPaymentMethod(ctx context.Context, userID, id string) (core.PaymentMethod, error) {
	doc, err := s.client.Collection(colPaymentMethods).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return core.PaymentMethod{}, store.ErrNotFound
	}
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("get payment method: %w", err)
	}
	var m core.PaymentMethod
	if err := doc.DataTo(&m); err != nil {
		return core.PaymentMethod{}, fmt.Errorf("parse payment method: %w", err)
	}
	if m.UserID != userID {
		return core.PaymentMethod{}, store.ErrNotFound
	}
	return m, nil
}

func (s *Store) UpdatePaymentMethod(ctx context.Context, m core.PaymentMethod) error {
	if _, err := s.GetPaymentMethod(ctx, m.UserID, m.ID); err != nil {
		return err
	}
	_, err := s.client.Collection(colPaymentMethods).Doc(m.ID).Set(ctx, m)
	if err != nil {
		return fmt.Errorf("update payment method: %w", err)
	}
	return nil
}

func (s *Store) DeletePaymentMethod(ctx context.Context, userID, id string) error {
	if _, err := s.GetPaymentMethod(ctx, userID, id); err != nil {
		return err
	}
	_, err := s.client.Collection(colPaymentMethods).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := s.client.Collection(colCategories).Doc(c.ID).Set(ctx, c)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	iter := s.client.Collection(colCategories).
		Where("userId", "==", userID).
		Documents(ctx)

	var out []core.Category
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate categories for user %s: %w", userID, err)
		}
		var c core.Category
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("parse category: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, userID, id string) (core.Category, error) {
	doc, err := s.client.Collection(colCategories).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return core.Category{}, store.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	var c core.Category
	if err := doc.DataTo(&c); err != nil {
		return core.Category{}, fmt.Errorf("parse category: %w", err)
	}
	if c.UserID != userID {
		return core.Category{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c core.Category) error {
	if _, err := s.GetCategory(ctx, c.UserID, c.ID); err != nil {
		return err
	}
	_, err := s.client.Collection(colCategories).Doc(c.ID).Set(ctx, c)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id string) error {
	if _, err := s.GetCategory(ctx, userID, id); err != nil {
		return err
	}
	_, err := s.client.Collection(colCategories).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := s.client.Collection(colTransactions).Doc(t.ID).Set(ctx, t)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	iter := s.client.Collection(colTransactions).
		Where("userId", "==", userID).
		Documents(ctx)

	var out []core.Transaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate transactions for user %s: %w", userID, err)
		}
		var t core.Transaction
		if err := doc.DataTo(&t); err != nil {
			return nil, fmt.Errorf("parse transaction: %w", err)
		}
		out = append(out, t)
	}

	n := limit
	if n <= 0 {
		n = len(out)
	}
	return core.MostRecent(out, n), nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	doc, err := s.client.Collection(colTransactions).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	var t core.Transaction
	if err := doc.DataTo(&t); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction: %w", err)
	}
	if t.UserID != userID {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	if _, err := s.GetTransaction(ctx, userID, id); err != nil {
		return err
	}
	_, err := s.client.Collection(colTransactions).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *Store) ListRecurringTemplates(ctx context.Context) ([]core.Transaction, error) {
	iter := s.client.Collection(colTransactions).
		Where("isRecurring", "==", true).
		Documents(ctx)

	var out []core.Transaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate recurring templates: %w", err)
		}
		var t core.Transaction
		if err := doc.DataTo(&t); err != nil {
			return nil, fmt.Errorf("parse transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) GetRecurringLastRun(ctx context.Context, templateID string) (string, error) {
	doc, err := s.client.Collection(colTransactions).Doc(templateID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get recurring last run: %w", err)
	}
	raw, err := doc.DataAt("recurringLastRun")
	if err != nil {
		return "", nil
	}
	day, _ := raw.(string)
	return day, nil
}

func (s *Store) SetRecurringLastRun(ctx context.Context, templateID, day string) error {
	_, err := s.client.Collection(colTransactions).Doc(templateID).Update(ctx, []firestore.Update{
		{Path: "recurringLastRun", Value: day},
	})
	if status.Code(err) == codes.NotFound {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("set recurring last run: %w", err)
	}
	return nil
}

func (s *Store) CreateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	_, err := s.client.Collection(colBudgets).Doc(b.ID).Set(ctx, b)
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (s *Store) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	iter := s.client.Collection(colBudgets).
		Where("userId", "==", userID).
		Documents(ctx)

	var out []core.Budget
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate budgets for user %s: %w", userID, err)
		}
		var b core.Budget
		if err := doc.DataTo(&b); err != nil {
			return nil, fmt.Errorf("parse budget: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *Store) GetBudget(ctx context.Context, userID, id string) (core.Budget, error) {
	doc, err := s.client.Collection(colBudgets).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return core.Budget{}, store.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	var b core.Budget
	if err := doc.DataTo(&b); err != nil {
		return core.Budget{}, fmt.Errorf("parse budget: %w", err)
	}
	if b.UserID != userID {
		return core.Budget{}, store.ErrNotFound
	}
	return b, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b core.Budget) error {
	if _, err := s.GetBudget(ctx, b.UserID, b.ID); err != nil {
		return err
	}
	_, err := s.client.Collection(colBudgets).Doc(b.ID).Set(ctx, b)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, userID, id string) error {
	if _, err := s.GetBudget(ctx, userID, id); err != nil {
		return err
	}
	_, err := s.client.Collection(colBudgets).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}
