package quotation

import (
	"github.com/pharmlab/procure/pkg/repo/model"
)

func NewLineItemResp(index int, item *model.LineItem) *LineItemResp {
	return &LineItemResp{
		Index:               index,
		Kind:                item.Kind,
		Name:                item.Name,
		Quantity:            item.Quantity,
		Unit:                item.Unit,
		Remarks:             item.Remarks,
		Description:         item.Description,
		PricePerUnit:        item.PricePerUnit,
		TotalPrice:          item.Total(),
		AllocatedQuantity:   item.AllocatedQuantity,
		SourceQuotationUUID: item.SourceQuotationUUID,
	}
}

func NewCommentResp(c *model.Comment) *CommentResp {
	return &CommentResp{
		Role:      c.Role,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func NewCommentsResp(comments []*model.Comment) []*CommentResp {
	out := make([]*CommentResp, 0, len(comments))
	for _, c := range comments {
		out = append(out, NewCommentResp(c))
	}
	return out
}

// NewQuotationResp renders q with its derived total and the deduplicated
// comment view. Chemical indexes match those accepted by remark updates.
func NewQuotationResp(q *model.Quotation) *QuotationResp {
	resp := &QuotationResp{
		UUID:          q.UUID,
		Kind:          q.Kind,
		LabID:         q.LabID,
		CreatedBy:     q.CreatedBy,
		CreatedByRole: q.CreatedByRole,
		VendorName:    q.VendorName,
		Status:        q.Status,
		Terminal:      IsTerminal(q.Status),
		Version:       q.Version,
		TotalPrice:    q.TotalPrice(),
		Comments:      NewCommentsResp(DedupComments(q.Comments)),
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}

	chemicals := q.Chemicals()
	resp.Chemicals = make([]*LineItemResp, 0, len(chemicals))
	byItem := make(map[*model.LineItem]*LineItemResp, len(chemicals))
	for i, item := range chemicals {
		r := NewLineItemResp(i, item)
		resp.Chemicals = append(resp.Chemicals, r)
		byItem[item] = r
	}

	for _, e := range q.Experiments {
		er := &ExperimentResp{
			ExperimentID: e.ExperimentID,
			CourseID:     e.CourseID,
			BatchID:      e.BatchID,
			Date:         e.Date.Format(dateLayout),
			Items:        make([]*LineItemResp, 0),
		}
		for _, item := range q.LineItems {
			if item.ExperimentID == nil || *item.ExperimentID != e.ID {
				continue
			}
			if r, ok := byItem[item]; ok {
				er.Items = append(er.Items, r)
				continue
			}
			er.Items = append(er.Items, NewLineItemResp(-1, item))
		}
		resp.Experiments = append(resp.Experiments, er)
	}
	return resp
}
