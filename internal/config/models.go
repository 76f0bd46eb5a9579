package config

import "time"

// PathsConfig holds dataset and artifact locations
type PathsConfig struct {
	RawData          string
	ProcessedData    string
	TFIDFMatrix      string
	Model            string
	MisclassifiedLog string
}

// TrainingConfig controls the split and the classifier set
type TrainingConfig struct {
	TestSize    float64
	Seed        uint64
	Classifiers []string
	Persist     string
}

// SVMConfig configures the support vector classifier
type SVMConfig struct {
	C         float64
	Tolerance float64
	MaxIter   int
	CacheRows int
}

// TreeConfig configures the decision tree
type TreeConfig struct {
	MaxDepth int
}

// BayesConfig configures naive Bayes
type BayesConfig struct {
	Alpha float64
}

// TextConfig configures text preprocessing
type TextConfig struct {
	StoplistPath   string
	MaxMessageSize int
}

// ServerConfig configures the prediction API
type ServerConfig struct {
	ListenAddress   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	DocsEnabled     bool
}

// GetPaths returns the dataset and artifact paths
func (c *Config) GetPaths() PathsConfig {
	return PathsConfig{
		RawData:          c.GetString("data.raw_path"),
		ProcessedData:    c.GetString("data.processed_path"),
		TFIDFMatrix:      c.GetString("output.tfidf_matrix"),
		Model:            c.GetString("output.model"),
		MisclassifiedLog: c.GetString("output.misclassified_log"),
	}
}

// GetTraining returns the training configuration
func (c *Config) GetTraining() TrainingConfig {
	return TrainingConfig{
		TestSize:    c.GetFloat64("train.test_size"),
		Seed:        c.GetUint64("train.seed"),
		Classifiers: c.GetStringSlice("train.classifiers"),
		Persist:     c.GetString("train.persist"),
	}
}

// GetSVM returns the SVM configuration
func (c *Config) GetSVM() SVMConfig {
	return SVMConfig{
		C:         c.GetFloat64("svm.c"),
		Tolerance: c.GetFloat64("svm.tolerance"),
		MaxIter:   c.GetInt("svm.max_iter"),
		CacheRows: c.GetInt("svm.cache_rows"),
	}
}

// GetTree returns the decision tree configuration
func (c *Config) GetTree() TreeConfig {
	return TreeConfig{
		MaxDepth: c.GetInt("tree.max_depth"),
	}
}

// GetBayes returns the naive Bayes configuration
func (c *Config) GetBayes() BayesConfig {
	return BayesConfig{
		Alpha: c.GetFloat64("bayes.alpha"),
	}
}

// GetText returns the text preprocessing configuration
func (c *Config) GetText() TextConfig {
	return TextConfig{
		StoplistPath:   c.GetString("text.stoplist_path"),
		MaxMessageSize: c.GetInt("text.max_message_size"),
	}
}

// GetServer returns the server configuration, falling back to defaults for unparsable durations
func (c *Config) GetServer() ServerConfig {
	duration := func(key string, fallback time.Duration) time.Duration {
		d, err := c.GetDuration(key)
		if err != nil {
			return fallback
		}
		return d
	}
	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		ReadTimeout:     duration("server.read_timeout", 10*time.Second),
		WriteTimeout:    duration("server.write_timeout", 10*time.Second),
		ShutdownTimeout: duration("server.shutdown_timeout", 5*time.Second),
		DocsEnabled:     c.GetBool("server.docs_enabled"),
	}
}
