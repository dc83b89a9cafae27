/*
 * Copyright 2022 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package opts

import (
	"os"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	_DefaultVerify   = false
	_DefaultLogLevel = logrus.WarnLevel
)

var (
	Verify     = parseBoolOrDefault("CFGSSA_VERIFY", _DefaultVerify)
	MaxWorkers = parseMaxWorkers()
	Logger     = newLogger(parseLevelOrDefault("CFGSSA_LOG_LEVEL", _DefaultLogLevel))
)

func newLogger(level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(level)
	return log
}

// parseMaxWorkers allows "0", meaning no limit, like WithMaxWorkers does.
func parseMaxWorkers() int {
	return parseOrDefault("CFGSSA_MAX_WORKERS", runtime.NumCPU(), 0)
}

func parseOrDefault(key string, def int, min int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
		panic("cfgssa: invalid value for " + key)
	} else if ret := int(val); ret < min {
		panic("cfgssa: value too small for " + key)
	} else {
		return ret
	}
}

func parseBoolOrDefault(key string, def bool) bool {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseBool(env); err != nil {
		panic("cfgssa: invalid value for " + key)
	} else {
		return val
	}
}

func parseLevelOrDefault(key string, def logrus.Level) logrus.Level {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := logrus.ParseLevel(env); err != nil {
		panic("cfgssa: invalid value for " + key)
	} else {
		return val
	}
}
