package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/tendermesh/matching-backend/pkg/e"
	"github.com/tendermesh/matching-backend/pkg/logger"
)

type Config struct {
	Http     *HTTPConfig
	Db       *PGDBCfg
	Qdrant   *QdrantCfg
	Redis    *RedisCfg
	Minio    *MinIOCfg
	Kafka    *KafkaCfg
	OpenAI   *OpenAICfg
	Matching *MatchingCfg
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type QdrantCfg struct {
	Host              string
	Port              int
	ApiKey            string
	VendorsCollection string
	TendersCollection string
	UseTLS            bool
	VectorSize        uint64
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	MatchTTL    time.Duration // TTL кэша готовых ответов подбора
}

type MinIOCfg struct {
	MinioEndpoint      string
	BucketName         string
	MinioRootUser      string
	MinioRootPassword  string
	MinioUseSSL        bool
	UploadDocsLimit    int // лимит одновременных загрузок документов
	MaxDocumentsPerReq int
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type OpenAICfg struct {
	ApiKey         string
	Model          string
	RequestTimeout time.Duration
	MaxBatchSize   int
	InterBatchWait time.Duration
	SingleBackoff  time.Duration
	BatchBackoff   time.Duration
}

// MatchingCfg содержит настройки подбора поставщиков.
type MatchingCfg struct {
	SimilarityThreshold float64
	DefaultTopK         int
	FeedbackWeight      float64
	// GeoHardFilter включает жесткий географический фильтр кандидатов.
	// По умолчанию выключен: география учитывается только множителем оценки.
	GeoHardFilter bool
	CacheTTL      time.Duration
	CacheMaxSize  int
	CacheVersion  string
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	openai, err := loadOpenAICfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	matching, err := loadMatchingCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:     http,
		Db:       db,
		Qdrant:   qdrant,
		Redis:    redis,
		Minio:    minio,
		Kafka:    kafka,
		OpenAI:   openai,
		Matching: matching,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 30 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadQdrantCfg(log logger.Logger) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort     = "6334"
		defaultUseTLS             = false
		defaultVectorSize         = "1536"
		defaultVendorsCollection  = "vendors"
		defaultTendersCollection  = "tenders"
	)

	strPort := getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort)
	port, err := strconv.Atoi(strPort)
	if err != nil {
		log.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		log.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	strVectorSize := getEnvOrDefault("VECTOR_SIZE", defaultVectorSize)
	vectorSize, err := strconv.ParseUint(strVectorSize, 10, 64)
	if err != nil {
		log.Errorf(err, "invalid VECTOR_SIZE")
		return nil, err
	}

	return &QdrantCfg{
		Host:              getEnv("QDRANT_HOST"),
		Port:              port,
		ApiKey:            getEnv("QDRANT__SERVICE__API_KEY"),
		VendorsCollection: getEnvOrDefault("VENDORS_COLLECTION", defaultVendorsCollection),
		TendersCollection: getEnvOrDefault("TENDERS_COLLECTION", defaultTendersCollection),
		UseTLS:            useTLS,
		VectorSize:        vectorSize,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultMatchTTL     = 5 * time.Minute
	)

	dbStr := getEnvOrDefault("REDIS_DB_ID", strconv.Itoa(defaultDB))
	db, err := strconv.Atoi(dbStr)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	matchTTL, err := parseDurationEnv("MATCH_CACHE_TTL", defaultMatchTTL)
	if err != nil {
		log.Errorf(err, "invalid MATCH_CACHE_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		MatchTTL:    matchTTL,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:      getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:         getEnv("BUCKET_NAME"),
		MinioRootUser:      getEnv("MINIO_ROOT_USER"),
		MinioRootPassword:  getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:        useSSL,
		UploadDocsLimit:    5,
		MaxDocumentsPerReq: 10,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultTopic             = "matching.feedback"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadOpenAICfg() (*OpenAICfg, error) {
	const (
		defaultModel          = "text-embedding-3-small"
		defaultRequestTimeout = 30 * time.Second
		defaultMaxBatchSize   = 100
		defaultInterBatchWait = 500 * time.Millisecond
		defaultSingleBackoff  = 2 * time.Second
		defaultBatchBackoff   = 3 * time.Second
	)

	apiKey := getEnv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	requestTimeout, err := parseDurationEnv("OPENAI_REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		return nil, e.Wrap("OPENAI_REQUEST_TIMEOUT", err)
	}

	maxBatchSize, err := parseIntEnv("OPENAI_MAX_BATCH_SIZE", defaultMaxBatchSize)
	if err != nil {
		return nil, e.Wrap("OPENAI_MAX_BATCH_SIZE", err)
	}

	return &OpenAICfg{
		ApiKey:         apiKey,
		Model:          getEnvOrDefault("OPENAI_EMBEDDING_MODEL", defaultModel),
		RequestTimeout: requestTimeout,
		MaxBatchSize:   maxBatchSize,
		InterBatchWait: defaultInterBatchWait,
		SingleBackoff:  defaultSingleBackoff,
		BatchBackoff:   defaultBatchBackoff,
	}, nil
}

func loadMatchingCfg(log logger.Logger) (*MatchingCfg, error) {
	const (
		defaultThreshold    = "0.2"
		defaultTopK         = 5
		defaultFeedback     = "0.1"
		defaultGeoFilter    = "false"
		defaultCacheTTL     = 24 * time.Hour
		defaultCacheMaxSize = 10000
		defaultCacheVersion = "v1"
	)

	threshold, err := strconv.ParseFloat(getEnvOrDefault("SIMILARITY_THRESHOLD", defaultThreshold), 64)
	if err != nil {
		log.Errorf(err, "invalid SIMILARITY_THRESHOLD")
		return nil, err
	}

	topK, err := parseIntEnv("DEFAULT_TOP_K", defaultTopK)
	if err != nil {
		log.Errorf(err, "invalid DEFAULT_TOP_K")
		return nil, err
	}

	feedbackWeight, err := strconv.ParseFloat(getEnvOrDefault("FEEDBACK_ADJUSTMENT_WEIGHT", defaultFeedback), 64)
	if err != nil {
		log.Errorf(err, "invalid FEEDBACK_ADJUSTMENT_WEIGHT")
		return nil, err
	}

	geoHardFilter, err := strconv.ParseBool(getEnvOrDefault("GEO_HARD_FILTER", defaultGeoFilter))
	if err != nil {
		log.Errorf(err, "invalid GEO_HARD_FILTER")
		return nil, err
	}

	cacheTTL, err := parseDurationEnv("EMBEDDING_CACHE_TTL", defaultCacheTTL)
	if err != nil {
		log.Errorf(err, "invalid EMBEDDING_CACHE_TTL")
		return nil, err
	}

	cacheMaxSize, err := parseIntEnv("EMBEDDING_CACHE_MAX_SIZE", defaultCacheMaxSize)
	if err != nil {
		log.Errorf(err, "invalid EMBEDDING_CACHE_MAX_SIZE")
		return nil, err
	}

	return &MatchingCfg{
		SimilarityThreshold: threshold,
		DefaultTopK:         topK,
		FeedbackWeight:      feedbackWeight,
		GeoHardFilter:       geoHardFilter,
		CacheTTL:            cacheTTL,
		CacheMaxSize:        cacheMaxSize,
		CacheVersion:        getEnvOrDefault("EMBEDDING_CACHE_VERSION", defaultCacheVersion),
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
