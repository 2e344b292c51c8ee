package services

// ServiceContainer holds instances of all the application services.
// Handlers receive it and pick the facades they need.
type ServiceContainer struct {
	RateCache    RateCacheSvc
	Converter    ConverterSvc
	Batch        BatchConverterSvc
	Normalizer   NormalizerSvc
	Transactions TransactionSvcFacade
	Analytics    AnalyticsSvc
}
