package requestdata

import (
  "context"
  "github.com/google/uuid"
)

type contextKey struct{}

var requestDataKey contextKey

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
  return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
  val := ctx.Value(requestDataKey)
  if rd, ok := val.(*RequestData); ok {
    return rd
  }
  return nil
}

type RequestData struct {
  TokenString   string
  UserID        uuid.UUID
  Username      string
  Permissions   []int
}

func (rd *RequestData) HasPermission(id int) bool {
  if rd == nil {
    return false
  }
  for _, p := range rd.Permissions {
    if p == id {
      return true
    }
  }
  return false
}
