package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pharmlab/procure/internal/config"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/repo"
)

type courseResp struct {
	Code int `json:"code"`
	Data struct {
		CourseID string `json:"course_id"`
		BatchID  string `json:"batch_id"`
		Active   bool   `json:"active"`
	} `json:"data"`
}

type catalogImpl struct {
	client *resty.Client
}

// New returns the course catalog client. With no CATALOG_ADDR configured
// every course/batch pair is treated as active.
func New() repo.CourseCatalog {
	conf := config.Global().Catalog
	if conf.Addr == "" {
		return openCatalog{}
	}
	return &catalogImpl{
		client: resty.New().
			SetBaseURL(conf.Addr).
			SetTimeout(time.Duration(conf.Timeout)*time.Second).
			SetHeader("X-Api-Key", conf.ApiKey).
			SetRetryCount(2),
	}
}

func (c *catalogImpl) IsActive(ctx context.Context, courseID string, batchID string) (bool, error) {
	ret := &courseResp{}
	resp, err := c.client.R().SetContext(ctx).
		SetPathParams(map[string]string{"course": courseID, "batch": batchID}).
		SetResult(ret).
		Get("/api/v1/courses/{course}/batches/{batch}")
	if err != nil {
		logger.Errorf(ctx, "catalog IsActive http err: %+v", err)
		return false, code.RPCHttpErr.WithErr(err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return false, nil
	default:
		return false, code.RPCHttpCodeErr.WithMsgf("http code: %d", resp.StatusCode())
	}
	if ret.Code != 0 {
		return false, code.RPCHttpCodeErr.WithMsgf("code: %d", ret.Code)
	}
	return ret.Data.Active, nil
}

type openCatalog struct{}

func (openCatalog) IsActive(context.Context, string, string) (bool, error) {
	return true, nil
}
