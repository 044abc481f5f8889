package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	Q      string
	From   string
	To     string
}

type AdminOrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 注文一覧（明細は詳細で返す）
func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (AdminOrderListOutput, error) {
	// page/limitの最低限チェック
	if in.Page < 1 {
		return AdminOrderListOutput{}, NewValidationError("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return AdminOrderListOutput{}, NewValidationError("invalid limit")
	}

	f := repo.AdminOrderListFilter{
		Page:  in.Page,
		Limit: in.Limit,
		Q:     strings.TrimSpace(in.Q),
	}
	if s := strings.TrimSpace(in.Status); s != "" {
		st, ok := model.ParseOrderStatus(s)
		if !ok {
			return AdminOrderListOutput{}, NewValidationError("invalid status")
		}
		f.Status = string(st)
	}

	var ok bool
	if f.From, ok = parseDateTimeRFC3339(in.From); !ok {
		return AdminOrderListOutput{}, NewValidationError("invalid from")
	}
	if f.To, ok = parseDateTimeRFC3339(in.To); !ok {
		return AdminOrderListOutput{}, NewValidationError("invalid to")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return AdminOrderListOutput{}, NewValidationError("from must be <= to")
	}

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return AdminOrderListOutput{}, NewPersistenceError(err)
	}
	return AdminOrderListOutput{Items: orders, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewValidationError("invalid id")
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewNotFoundError("not found")
	}
	if err != nil {
		return model.Order{}, NewPersistenceError(err)
	}
	return o, nil
}

// ステータス更新（cancelled なら在庫戻し)
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor string, orderID int64, in AdminUpdateOrderStatusInput) error {
	if strings.TrimSpace(actor) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewValidationError("invalid id")
	}

	newStatus, ok := model.ParseOrderStatus(strings.TrimSpace(in.Status))
	if !ok {
		return NewValidationError("invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("not found")
		}
		if err != nil {
			return NewPersistenceError(err)
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}
		// 終端ガード
		if o.Status.IsTerminal() {
			return NewValidationError("cannot change %s order", o.Status)
		}

		// newStatusがcancelledのときだけ在庫戻し
		if newStatus == model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewPersistenceError(err)
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					// 商品が物理削除されていたら戻し先が無いのでスキップ
					if errors.Is(err, repo.ErrNotFound) {
						continue
					}
					return NewPersistenceError(err)
				}
			}
		}

		// ステータス更新
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("not found")
			}
			return NewPersistenceError(err)
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			Actor:        actor,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   fmt.Sprintf(`{"status":%q}`, o.Status),
			AfterJSON:    fmt.Sprintf(`{"status":%q}`, newStatus),
		}); err != nil {
			return NewPersistenceError(err)
		}
		return nil
	})
}

// 注文削除（明細も消える）。在庫は戻さない
func (u *AdminOrderUsecase) Delete(ctx context.Context, actor string, orderID int64) error {
	if strings.TrimSpace(actor) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewValidationError("invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("not found")
		}
		if err != nil {
			return NewPersistenceError(err)
		}

		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("not found")
			}
			return NewPersistenceError(err)
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			Actor:        actor,
			Action:       model.AuditActionDeleteOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   fmt.Sprintf(`{"status":%q,"totalPrice":%q,"items":%d}`, o.Status, o.TotalPrice.StringFixed(2), len(o.Items)),
			AfterJSON:    `{"deleted":true}`,
		}); err != nil {
			return NewPersistenceError(err)
		}
		return nil
	})
}

// 空文字は指定なし。形式違いはfalse
func parseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
