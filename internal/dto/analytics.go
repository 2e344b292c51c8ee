package dto

// TimeSeriesQuery selects the pair and window of a rate time series.
type TimeSeriesQuery struct {
	From string `form:"from" binding:"required,len=3,alpha"`
	To   string `form:"to" binding:"required,len=3,alpha"`
	Days int    `form:"days,default=30" binding:"min=1,max=365"`
}

// TrendsQuery selects the trailing window of the trends report.
type TrendsQuery struct {
	Days int `form:"days,default=7" binding:"min=1,max=365"`
}
