package stats

// StatisticType names one statistic.
type StatisticType string

const (
	MapperInstancesCount        StatisticType = "MAPPER_INSTANCES_COUNT"
	MappingSuccessCount         StatisticType = "MAPPING_SUCCESS_COUNT"
	MappingFailureCount         StatisticType = "MAPPING_FAILURE_COUNT"
	MappingFailureExTypeCount   StatisticType = "MAPPING_FAILURE_EX_TYPE_COUNT"
	MappingFailureTypeCount     StatisticType = "MAPPING_FAILURE_TYPE_COUNT"
	MappingTime                 StatisticType = "MAPPING_TIME"
	FieldMappingSuccessCount    StatisticType = "FIELD_MAPPING_SUCCESS_COUNT"
	FieldMappingFailureCount    StatisticType = "FIELD_MAPPING_FAILURE_COUNT"
	CustomConverterSuccessCount StatisticType = "CUSTOM_CONVERTER_SUCCESS_COUNT"
	CacheHitCount               StatisticType = "CACHE_HIT_COUNT"
	CacheMissCount              StatisticType = "CACHE_MISS_COUNT"
)

// Types lists every statistic type in a stable order.
func Types() []StatisticType {
	return []StatisticType{
		MapperInstancesCount,
		MappingSuccessCount,
		MappingFailureCount,
		MappingFailureExTypeCount,
		MappingFailureTypeCount,
		MappingTime,
		FieldMappingSuccessCount,
		FieldMappingFailureCount,
		CustomConverterSuccessCount,
		CacheHitCount,
		CacheMissCount,
	}
}
