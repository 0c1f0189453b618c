package tracker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	// stateDim is the size of the state vector [x, y, w, h, vx, vy, vw]
	stateDim = 7
	// measureDim is the size of the measurement vector [x, y, w, h]
	measureDim = 4
)

// StateMean represents the 1x7 state vector [x, y, w, h, vx, vy, vw]
type StateMean []float64

// StateCov represents the 7x7 state covariance matrix
type StateCov struct {
	*mat.Dense
}

// KalmanFilter is a constant velocity linear filter over a tlwh box.  Position
// and width carry a velocity term, height is assumed constant between
// observations
type KalmanFilter struct {
	// motionMat is the state transition matrix F
	motionMat *mat.Dense
	// updateMat is the observation matrix H
	updateMat *mat.Dense
	// processNoise is Q
	processNoise *mat.Dense
	// measureNoise is R
	measureNoise *mat.SymDense
	// initCovScale is applied to the identity to form the initial covariance
	initCovScale float64
}

// NewKalmanFilter initializes and returns a new KalmanFilter
func NewKalmanFilter() *KalmanFilter {

	// identity with x+=vx, y+=vy, w+=vw, no height velocity
	motionMat := identity(stateDim)
	motionMat.Set(0, 4, 1)
	motionMat.Set(1, 5, 1)
	motionMat.Set(2, 6, 1)

	// observe the first four state components directly
	updateMat := mat.NewDense(measureDim, stateDim, nil)

	for i := 0; i < measureDim; i++ {
		updateMat.Set(i, i, 1)
	}

	// lower confidence in size measurements
	measureNoise := mat.NewSymDense(measureDim, nil)

	for i := 0; i < measureDim; i++ {
		measureNoise.SetSym(i, i, 1)
	}

	measureNoise.SetSym(2, 2, 10)
	measureNoise.SetSym(3, 3, 10)

	// slow changing velocities, the width velocity is scaled twice
	processNoise := identity(stateDim)
	processNoise.Set(6, 6, processNoise.At(6, 6)*0.01)

	for i := 4; i < stateDim; i++ {
		processNoise.Set(i, i, processNoise.At(i, i)*0.01)
	}

	return &KalmanFilter{
		motionMat:    motionMat,
		updateMat:    updateMat,
		processNoise: processNoise,
		measureNoise: measureNoise,
		initCovScale: 10,
	}
}

// Initiate sets the state mean from the measured box with zero velocities and
// a scaled up identity covariance
func (kf *KalmanFilter) Initiate(mean StateMean, covariance *StateCov,
	measurement Rect) {

	copy(mean[:measureDim], measurement.Tlwh[:])

	for i := measureDim; i < stateDim; i++ {
		mean[i] = 0
	}

	covariance.Dense = identity(stateDim)
	covariance.Scale(kf.initCovScale, covariance.Dense)
}

// Predict advances the state mean and covariance one time step
func (kf *KalmanFilter) Predict(mean StateMean, covariance *StateCov) {

	meanVec := mat.NewVecDense(stateDim, nil)
	meanVec.MulVec(kf.motionMat, mat.NewVecDense(stateDim, mean))

	for i := 0; i < stateDim; i++ {
		mean[i] = meanVec.AtVec(i)
	}

	// P = F P F' + Q
	cov := mat.NewDense(stateDim, stateDim, nil)
	cov.Mul(kf.motionMat, covariance.Dense)
	cov.Mul(cov, kf.motionMat.T())
	cov.Add(cov, kf.processNoise)

	covariance.Dense = cov
}

// Update fuses a measured box into the state mean and covariance
func (kf *KalmanFilter) Update(mean StateMean, covariance *StateCov,
	measurement Rect) error {

	// project the state mean and covariance to measurement space
	projectedMean, projectedCov := kf.project(mean, covariance)

	chol := mat.Cholesky{}

	if ok := chol.Factorize(projectedCov); !ok {
		return errors.New("failed to factorize projected covariance")
	}

	// K' = S^-1 (P H')'  since S is symmetric
	pht := mat.NewDense(stateDim, measureDim, nil)
	pht.Mul(covariance.Dense, kf.updateMat.T())

	var gainT mat.Dense

	if err := chol.SolveTo(&gainT, pht.T()); err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	gain := mat.DenseCopyOf(gainT.T())

	// innovation (measurement residual)
	innovation := mat.NewVecDense(measureDim, nil)

	for i := 0; i < measureDim; i++ {
		innovation.SetVec(i, measurement.Tlwh[i]-projectedMean.AtVec(i))
	}

	correction := mat.NewVecDense(stateDim, nil)
	correction.MulVec(gain, innovation)

	for i := 0; i < stateDim; i++ {
		mean[i] += correction.AtVec(i)
	}

	// Joseph form P = (I-KH) P (I-KH)' + K R K'
	ikh := mat.NewDense(stateDim, stateDim, nil)
	ikh.Mul(gain, kf.updateMat)
	ikh.Sub(identity(stateDim), ikh)

	newCov := mat.NewDense(stateDim, stateDim, nil)
	newCov.Mul(ikh, covariance.Dense)
	newCov.Mul(newCov, ikh.T())

	krk := mat.NewDense(stateDim, measureDim, nil)
	krk.Mul(gain, kf.measureNoise)

	noise := mat.NewDense(stateDim, stateDim, nil)
	noise.Mul(krk, gain.T())

	newCov.Add(newCov, noise)

	covariance.Dense = newCov

	return nil
}

// project projects the state mean and covariance to measurement space
func (kf *KalmanFilter) project(mean StateMean,
	covariance *StateCov) (*mat.VecDense, *mat.SymDense) {

	projectedMean := mat.NewVecDense(measureDim, nil)
	projectedMean.MulVec(kf.updateMat, mat.NewVecDense(stateDim, mean))

	temp := mat.NewDense(measureDim, stateDim, nil)
	temp.Mul(kf.updateMat, covariance.Dense)

	temp2 := mat.NewDense(measureDim, measureDim, nil)
	temp2.Mul(temp, kf.updateMat.T())

	// symmetrize to absorb rounding before factorizing
	projectedCov := mat.NewSymDense(measureDim, nil)

	for i := 0; i < measureDim; i++ {
		for j := i; j < measureDim; j++ {
			projectedCov.SetSym(i, j, (temp2.At(i, j)+temp2.At(j, i))/2)
		}
	}

	projectedCov.AddSym(projectedCov, kf.measureNoise)

	return projectedMean, projectedCov
}

// identity returns an n x n identity matrix
func identity(n int) *mat.Dense {

	m := mat.NewDense(n, n, nil)

	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}

	return m
}
