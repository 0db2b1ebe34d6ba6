package extract

import (
	"fmt"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// Bind converts a parameter set into the typed record of intent. A required
// capture that is missing or empty is reported as ErrNotMatched.
func Bind(intent models.Intent, params models.ParameterSet) (models.Params, error) {
	for _, slot := range mapping.RequiredCaptures[intent] {
		if params[slot] == "" {
			return nil, fmt.Errorf("%w: slot %s not captured", models.ErrNotMatched, slot)
		}
	}

	switch intent {
	case models.IntentTotalByCategory:
		return models.TotalByCategory{Table: params["table"], Measure: params["measure"], Category: params["category"]}, nil
	case models.IntentAverageByCategory:
		return models.AverageByCategory{Table: params["table"], Measure: params["measure"], Category: params["category"]}, nil
	case models.IntentCountByCategory:
		return models.CountByCategory{Table: params["table"], Category: params["category"]}, nil
	case models.IntentFilterSort:
		return models.FilterSort{
			Table:      params["table"],
			Columns:    columnsOrWildcard(params["columns"]),
			Condition:  params["condition"],
			SortColumn: params["sort_column"],
			SortOrder:  params["sort_order"],
		}, nil
	case models.IntentBasicSelect:
		return models.BasicSelect{
			Table:     params["table"],
			Columns:   columnsOrWildcard(params["columns"]),
			Condition: params["condition"],
		}, nil
	case models.IntentFilterByDateRange:
		return models.DateRange{
			Table:      params["table"],
			DateColumn: params["date_column"],
			StartDate:  params["start_date"],
			EndDate:    params["end_date"],
		}, nil
	case models.IntentTopNByMeasure:
		return models.TopN{
			N:         params["n"],
			Subject:   params["subject"],
			Extreme:   params["extreme"],
			Aggregate: params["aggregate"],
			Object:    params["object"],
		}, nil
	case models.IntentJoinQuery:
		return models.JoinQuery{Table1: params["table1"], Table2: params["table2"], Column: params["column"], Value: params["value"]}, nil
	case models.IntentListContainers:
		return models.ListContainers{}, nil
	case models.IntentDescribeAttributes:
		return models.DescribeAttributes{Table: params["table"]}, nil
	}
	return nil, fmt.Errorf("%w: intent %s has no parameter record", models.ErrNotMatched, intent)
}

// columnsOrWildcard treats an absent column list as every column.
func columnsOrWildcard(cols string) string {
	if cols == "" {
		return models.Wildcard
	}
	return cols
}
